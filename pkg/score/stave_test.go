package score

import "testing"

func TestStaveGeometry(t *testing.T) {
	s := NewStave(10, 40, 500)

	// Bottom line is line 1; lines count upward.
	if got := s.YForLine(1); got != s.BottomY() {
		t.Errorf("YForLine(1) = %v, want bottom %v", got, s.BottomY())
	}
	if got := s.YForLine(5); got != 40 {
		t.Errorf("top line y = %v, want 40", got)
	}
	// Half lines land between.
	mid := (s.YForLine(3) + s.YForLine(4)) / 2
	if got := s.YForLine(3.5); got != mid {
		t.Errorf("YForLine(3.5) = %v, want %v", got, mid)
	}
}

func TestStaveNoteArea(t *testing.T) {
	s := NewStave(10, 40, 500)
	base := s.NoteStartX()

	// Each decoration pushes the note area right.
	s.AddClef()
	afterClef := s.NoteStartX()
	if afterClef <= base {
		t.Error("clef should reserve room")
	}
	s.AddKeySignature(3)
	afterKey := s.NoteStartX()
	if afterKey <= afterClef {
		t.Error("key signature should reserve room")
	}
	s.AddTimeSignature()
	if s.NoteStartX() <= afterKey {
		t.Error("time signature should reserve room")
	}

	if s.NoteEndX() != 510 {
		t.Errorf("note end = %v, want 510", s.NoteEndX())
	}
	if s.NoteAreaWidth() >= s.Width() {
		t.Error("note area should be narrower than the stave")
	}
}
