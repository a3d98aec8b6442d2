package score

import (
	"testing"

	"github.com/stavekit/stavekit/pkg/glyph"
)

func chordWithAccidentals(t *testing.T, keys []string, types []string) (*Note, []*Accidental) {
	t.Helper()
	n, err := NewNote(keys, "4", 0)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	accs := make([]*Accidental, len(types))
	for i, accType := range types {
		accs[i] = NewAccidental(accType)
		n.AddModifier(accs[i], i)
	}
	return n, accs
}

func TestCheckCollision(t *testing.T) {
	line := func(l float64, flat, dblSharp bool) lineMetrics {
		return lineMetrics{line: l, flatLine: flat, dblSharpLine: dblSharp}
	}
	tests := []struct {
		name string
		a, b lineMetrics
		want bool
	}{
		{"adjacent lines collide", line(3, false, false), line(3.5, false, false), true},
		{"three half-lines apart clear", line(0, false, false), line(3, false, false), false},
		{"just under clearance collides", line(0, false, false), line(2.5, false, false), true},
		{"flats on top need less room", line(0, false, false), line(2.5, true, false), false},
		{"double sharp below adds credit", line(0, false, true), line(3, true, false), false},
		{"order does not matter", line(3.5, false, false), line(3, false, false), true},
	}
	for _, tt := range tests {
		if got := checkCollision(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: checkCollision = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFormatAccidentalsSingleColumn(t *testing.T) {
	// e/4 and e/5 are a seventh apart; both accidentals fit in column one.
	_, accs := chordWithAccidentals(t, []string{"e/4", "e/5"}, []string{"#", "#"})
	state := ModifierState{}
	eng := glyph.DefaultEngraving()
	FormatAccidentals(accs, &state, eng)

	// Both accidentals clear the notehead padding.
	for i, acc := range accs {
		if acc.XShift() != eng.NoteheadAccidentalPadding {
			t.Errorf("accidental %d shifted %v, want %v", i, acc.XShift(), eng.NoteheadAccidentalPadding)
		}
	}
	// One column: padding, sharp width plus spacing, plus the outer padding.
	want := eng.NoteheadAccidentalPadding + glyph.AccidentalWidth("#") + eng.AccidentalSpacing + eng.AccidentalLeftPadding
	if state.LeftShift != want {
		t.Errorf("left shift = %v, want %v", state.LeftShift, want)
	}
}

func TestFormatAccidentalsAdjacentLines(t *testing.T) {
	// b/4 and c/5 collide vertically; the lower accidental falls back to
	// column two.
	_, accs := chordWithAccidentals(t, []string{"b/4", "c/5"}, []string{"#", "#"})
	state := ModifierState{}
	eng := glyph.DefaultEngraving()
	FormatAccidentals(accs, &state, eng)

	base := eng.NoteheadAccidentalPadding
	colWidth := glyph.AccidentalWidth("#") + eng.AccidentalSpacing
	// The c/5 accidental sits higher, so it claims column one.
	if accs[1].XShift() != base {
		t.Errorf("top accidental shifted %v, want %v", accs[1].XShift(), base)
	}
	if accs[0].XShift() != base+colWidth {
		t.Errorf("bottom accidental shifted %v, want %v", accs[0].XShift(), base+colWidth)
	}
}

func TestFormatAccidentalsTriadCluster(t *testing.T) {
	// Three contiguous half-lines with colliding ends use the 1-3-2
	// triangle layout, top down.
	_, accs := chordWithAccidentals(t, []string{"a/4", "b/4", "c/5"}, []string{"#", "#", "#"})
	state := ModifierState{}
	eng := glyph.DefaultEngraving()
	FormatAccidentals(accs, &state, eng)

	base := eng.NoteheadAccidentalPadding
	colWidth := glyph.AccidentalWidth("#") + eng.AccidentalSpacing
	// Top line (c/5) column 1, middle (b/4) column 3, bottom (a/4)
	// column 2.
	if got := accs[2].XShift(); got != base {
		t.Errorf("c/5 accidental shifted %v, want %v", got, base)
	}
	if got := accs[1].XShift(); got != base+2*colWidth {
		t.Errorf("b/4 accidental shifted %v, want %v", got, base+2*colWidth)
	}
	if got := accs[0].XShift(); got != base+colWidth {
		t.Errorf("a/4 accidental shifted %v, want %v", got, base+colWidth)
	}
}

func TestFormatAccidentalsSharedLine(t *testing.T) {
	// Two voices writing accidentals on the same line stack side by side
	// within one column.
	n1, _ := NewNote([]string{"b/4"}, "4", 0)
	n2, _ := NewNote([]string{"b/4"}, "2", 0)
	a1, a2 := NewAccidental("#"), NewAccidental("n")
	n1.AddModifier(a1, 0)
	n2.AddModifier(a2, 0)

	state := ModifierState{}
	eng := glyph.DefaultEngraving()
	FormatAccidentals([]*Accidental{a1, a2}, &state, eng)

	base := eng.NoteheadAccidentalPadding
	if a1.XShift() != base {
		t.Errorf("first accidental shifted %v, want %v", a1.XShift(), base)
	}
	want := base + a1.Width() + eng.AccidentalSpacing
	if a2.XShift() != want {
		t.Errorf("second accidental shifted %v, want %v", a2.XShift(), want)
	}
}

func TestFormatAccidentalsStacksOnPriorShift(t *testing.T) {
	// Space consumed by earlier modifier passes moves every accidental
	// left and grows the total shift by the same amount.
	eng := glyph.DefaultEngraving()

	_, plain := chordWithAccidentals(t, []string{"b/4", "c/5"}, []string{"#", "#"})
	base := ModifierState{}
	FormatAccidentals(plain, &base, eng)

	const prior = 50.0
	_, shifted := chordWithAccidentals(t, []string{"b/4", "c/5"}, []string{"#", "#"})
	state := ModifierState{LeftShift: prior}
	FormatAccidentals(shifted, &state, eng)

	for i := range plain {
		want := plain[i].XShift() + prior
		if got := shifted[i].XShift(); got != want {
			t.Errorf("accidental %d shifted %v, want %v", i, got, want)
		}
	}
	if want := base.LeftShift + prior; state.LeftShift != want {
		t.Errorf("left shift = %v, want %v", state.LeftShift, want)
	}
}

func TestFormatAccidentalsNoOverlap(t *testing.T) {
	// Five contiguous colliding lines: every accidental lands in its own
	// column, so no two share an x shift.
	keys := []string{"f/4", "g/4", "a/4", "b/4", "c/5"}
	types := []string{"b", "#", "b", "#", "n"}
	_, accs := chordWithAccidentals(t, keys, types)
	state := ModifierState{}
	FormatAccidentals(accs, &state, glyph.DefaultEngraving())

	shifts := make(map[float64]int)
	for i, acc := range accs {
		if prev, seen := shifts[acc.XShift()]; seen {
			t.Errorf("accidentals %d and %d share shift %v", prev, i, acc.XShift())
		}
		shifts[acc.XShift()] = i
	}
	if state.LeftShift <= 0 {
		t.Error("cluster should consume left shift")
	}
}

func TestFormatAccidentalsLargeClusterParallel(t *testing.T) {
	// Seven or more contiguous lines fall back to repeating parallel
	// columns.
	keys := []string{"e/4", "f/4", "g/4", "a/4", "b/4", "c/5", "d/5"}
	types := []string{"#", "#", "#", "#", "#", "#", "#"}
	_, accs := chordWithAccidentals(t, keys, types)
	state := ModifierState{}
	FormatAccidentals(accs, &state, glyph.DefaultEngraving())

	// Columns repeat with a fixed period, so shifts cycle through a
	// bounded set of values.
	shifts := make(map[float64]bool)
	for _, acc := range accs {
		shifts[acc.XShift()] = true
	}
	if len(shifts) >= len(accs) {
		t.Errorf("%d distinct shifts for %d accidentals, want a repeating pattern", len(shifts), len(accs))
	}
}

func TestCautionaryAccidentalWidth(t *testing.T) {
	plain := NewAccidental("#")
	caut := NewAccidental("#")
	caut.Cautionary = true
	if caut.Width() <= plain.Width() {
		t.Error("cautionary accidental should be wider than plain")
	}
}
