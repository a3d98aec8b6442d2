package score

import "testing"

func accidentalsOn(n *Note) []*Accidental {
	var accs []*Accidental
	for _, m := range n.Modifiers() {
		if a, ok := m.(*Accidental); ok {
			accs = append(accs, a)
		}
	}
	return accs
}

func voiceOf(t *testing.T, specs [][2]string) *Voice {
	t.Helper()
	v := NewVoice(CommonTime).SetMode(SoftMode)
	for _, spec := range specs {
		n, err := NewNote([]string{spec[0]}, spec[1], 0)
		if err != nil {
			t.Fatalf("NewNote(%q): %v", spec[0], err)
		}
		if err := v.AddTickable(n); err != nil {
			t.Fatalf("AddTickable: %v", err)
		}
	}
	return v
}

func TestApplyAccidentalsKeyOfC(t *testing.T) {
	// f#, then the same f# (no restatement), then f natural (cancel).
	v := voiceOf(t, [][2]string{{"f#/4", "4"}, {"f#/4", "4"}, {"f/4", "4"}})
	if err := ApplyAccidentals([]*Voice{v}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}
	notes := v.Tickables()

	first := accidentalsOn(notes[0].(*Note))
	if len(first) != 1 || first[0].Type != "#" {
		t.Errorf("first note accidentals = %v, want one sharp", first)
	}
	if accs := accidentalsOn(notes[1].(*Note)); len(accs) != 0 {
		t.Errorf("repeated pitch got %d accidentals, want none", len(accs))
	}
	third := accidentalsOn(notes[2].(*Note))
	if len(third) != 1 || third[0].Type != "n" {
		t.Errorf("canceling note accidentals = %v, want one natural", third)
	}
}

func TestApplyAccidentalsKeySignatureSeeds(t *testing.T) {
	// In F major the flat b is in the signature; writing bb needs no
	// accidental, writing b natural does.
	v := voiceOf(t, [][2]string{{"bb/4", "4"}, {"b/4", "4"}})
	if err := ApplyAccidentals([]*Voice{v}, "F"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}
	notes := v.Tickables()

	if accs := accidentalsOn(notes[0].(*Note)); len(accs) != 0 {
		t.Errorf("in-signature flat got %d accidentals, want none", len(accs))
	}
	accs := accidentalsOn(notes[1].(*Note))
	if len(accs) != 1 || accs[0].Type != "n" {
		t.Errorf("natural against signature = %v, want one natural", accs)
	}
}

func TestApplyAccidentalsOctavesIndependent(t *testing.T) {
	// The sharp on f/4 does not carry to f/5.
	v := voiceOf(t, [][2]string{{"f#/4", "4"}, {"f#/5", "4"}})
	if err := ApplyAccidentals([]*Voice{v}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}
	for i, tk := range v.Tickables() {
		if accs := accidentalsOn(tk.(*Note)); len(accs) != 1 {
			t.Errorf("note %d got %d accidentals, want 1", i, len(accs))
		}
	}
}

func TestApplyAccidentalsAcrossVoices(t *testing.T) {
	// Both voices write f# at the same tick: the restatement in the
	// second voice is kept as a courtesy.
	v1 := voiceOf(t, [][2]string{{"f#/4", "1"}})
	v2 := voiceOf(t, [][2]string{{"f#/4", "1"}})
	if err := ApplyAccidentals([]*Voice{v1, v2}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}

	if accs := accidentalsOn(v1.Tickables()[0].(*Note)); len(accs) != 1 {
		t.Errorf("first voice got %d accidentals, want 1", len(accs))
	}
	if accs := accidentalsOn(v2.Tickables()[0].(*Note)); len(accs) != 1 {
		t.Errorf("second voice got %d accidentals, want 1", len(accs))
	}
}

func TestApplyAccidentalsLaterVoicePersistence(t *testing.T) {
	// A sharp stated on beat one of one voice holds for beat two of the
	// other voice.
	v1 := voiceOf(t, [][2]string{{"f#/4", "4"}, {"g/4", "4"}})
	v2 := voiceOf(t, [][2]string{{"a/4", "4"}, {"f#/4", "4"}})
	if err := ApplyAccidentals([]*Voice{v1, v2}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}
	if accs := accidentalsOn(v2.Tickables()[1].(*Note)); len(accs) != 0 {
		t.Errorf("carried-over sharp restated %d times, want none", len(accs))
	}
}

func TestApplyAccidentalsIdempotent(t *testing.T) {
	// Running the pass twice must not duplicate accidentals.
	v := voiceOf(t, [][2]string{{"f#/4", "2"}, {"f/4", "2"}})
	for i := 0; i < 2; i++ {
		if err := ApplyAccidentals([]*Voice{v}, "C"); err != nil {
			t.Fatalf("ApplyAccidentals pass %d: %v", i, err)
		}
	}
	for i, tk := range v.Tickables() {
		if accs := accidentalsOn(tk.(*Note)); len(accs) != 1 {
			t.Errorf("note %d has %d accidentals after rerun, want 1", i, len(accs))
		}
	}
}

func TestApplyAccidentalsGraceNotes(t *testing.T) {
	// Grace notes take part in the measure state: the grace f# claims
	// the sharp, the parent f# needs no restatement.
	grace, err := NewNote([]string{"f#/4"}, "8", 0)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	parent, err := NewNote([]string{"f#/4"}, "1", 0)
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}
	parent.AddModifier(NewGraceNoteGroup([]*Note{grace}), 0)

	v := NewVoice(CommonTime)
	if err := v.AddTickable(parent); err != nil {
		t.Fatalf("AddTickable: %v", err)
	}
	if err := ApplyAccidentals([]*Voice{v}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}

	if accs := accidentalsOn(grace); len(accs) != 1 {
		t.Errorf("grace note got %d accidentals, want 1", len(accs))
	}
	if accs := accidentalsOn(parent); len(accs) != 0 {
		t.Errorf("parent note got %d accidentals, want none", len(accs))
	}
}

func TestApplyAccidentalsRemovesDuplicateStale(t *testing.T) {
	// Two stale copies of the same accidental are both cleared before
	// the pass attaches a fresh one.
	v := voiceOf(t, [][2]string{{"f#/4", "4"}})
	n := v.Tickables()[0].(*Note)
	n.AddModifier(NewAccidental("#"), 0)
	n.AddModifier(NewAccidental("#"), 0)

	if err := ApplyAccidentals([]*Voice{v}, "C"); err != nil {
		t.Fatalf("ApplyAccidentals: %v", err)
	}
	if accs := accidentalsOn(n); len(accs) != 1 {
		t.Errorf("note has %d accidentals, want 1", len(accs))
	}
}

func TestApplyAccidentalsInvalidKey(t *testing.T) {
	v := voiceOf(t, [][2]string{{"c/4", "4"}})
	if err := ApplyAccidentals([]*Voice{v}, "H"); err == nil {
		t.Error("invalid key accepted, want error")
	}
}
