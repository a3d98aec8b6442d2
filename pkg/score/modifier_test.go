package score

import "testing"

func TestFormatDots(t *testing.T) {
	dots := []*Dot{NewDot(0), NewDot(0)}
	state := ModifierState{}
	FormatDots(dots, &state)

	// Dots stack left to right past the notehead.
	if dots[0].XShift() != 0 {
		t.Errorf("first dot shift = %v, want 0", dots[0].XShift())
	}
	want := dots[0].Width() + dotSpacing
	if dots[1].XShift() != want {
		t.Errorf("second dot shift = %v, want %v", dots[1].XShift(), want)
	}
	if state.RightShift != 2*(dots[0].Width()+dotSpacing) {
		t.Errorf("right shift = %v, want %v", state.RightShift, 2*(dots[0].Width()+dotSpacing))
	}
}

func TestFormatArticulationsStackLines(t *testing.T) {
	arts := []*Articulation{NewArticulation("a."), NewArticulation("a>")}
	state := ModifierState{}
	FormatArticulations(arts, &state)

	if arts[0].Line() != 0 || arts[1].Line() != 1 {
		t.Errorf("articulation lines = %d, %d; want 0, 1", arts[0].Line(), arts[1].Line())
	}
	if state.TextLine != 2 {
		t.Errorf("text line = %d, want 2", state.TextLine)
	}
}

func TestGraceNoteGroup(t *testing.T) {
	g1, err := NewNote([]string{"d/5"}, "8", 0)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	g2, err := NewNote([]string{"c/5"}, "8", 0)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	group := NewGraceNoteGroup([]*Note{g1, g2})

	// Wrapping pulls the grace notes out of tick accounting.
	if !g1.ShouldIgnoreTicks() || !g2.ShouldIgnoreTicks() {
		t.Error("grace notes should ignore ticks")
	}
	if group.Width() <= 0 {
		t.Error("group width should cover its notes")
	}

	// The group lands left of whatever already claimed left shift.
	state := ModifierState{LeftShift: 12}
	FormatGraceNoteGroups([]*GraceNoteGroup{group}, &state)
	if group.XShift() != -(12 + group.Width()) {
		t.Errorf("group shift = %v, want %v", group.XShift(), -(12 + group.Width()))
	}
	if state.LeftShift != 12+group.Width()+graceGroupSpacing {
		t.Errorf("left shift = %v, want %v", state.LeftShift, 12+group.Width()+graceGroupSpacing)
	}
}

func TestModifierContextPacking(t *testing.T) {
	// A dotted sharp note: the accidental claims left shift, the dot
	// right shift, and the context width covers both.
	n, err := NewNote([]string{"f#/4"}, "4", 1)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	n.AddModifier(NewAccidental("#"), 0)

	mc := NewModifierContext()
	n.AddToModifierContext(mc)
	mc.PreFormat()

	state := mc.State()
	if state.LeftShift <= 0 {
		t.Error("accidental should claim left shift")
	}
	if state.RightShift <= 0 {
		t.Error("dot should claim right shift")
	}
	if mc.Width() != state.LeftShift+state.RightShift+modifierSpacing {
		t.Errorf("context width = %v, want shifts plus spacing", mc.Width())
	}

	// The note's metrics pick the shifts up.
	m := n.Metrics()
	if m.ModLeftPx != state.LeftShift || m.ModRightPx != state.RightShift {
		t.Errorf("note metrics (%v, %v) do not match context state (%v, %v)",
			m.ModLeftPx, m.ModRightPx, state.LeftShift, state.RightShift)
	}
}

func TestModifierContextPreFormatOnce(t *testing.T) {
	n, err := NewNote([]string{"c/4"}, "4", 1)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	mc := NewModifierContext()
	n.AddToModifierContext(mc)
	mc.PreFormat()
	first := mc.State().RightShift
	mc.PreFormat()
	if mc.State().RightShift != first {
		t.Error("repeated PreFormat must not re-accumulate shifts")
	}
}
