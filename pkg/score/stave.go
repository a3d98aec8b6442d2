package score

import "github.com/stavekit/stavekit/pkg/glyph"

// Stave is the five-line staff notes are placed on. The formatter only
// consumes its horizontal note area and line geometry; decoration (clef,
// key and time glyphs) merely shifts where the note area starts.
type Stave struct {
	x, y  float64
	width float64

	numLines    int
	lineSpacing float64

	// startOffset is the room reserved before the first note for the
	// clef, key signature, and time signature.
	startOffset float64

	eng glyph.Engraving
}

// DefaultStavePadding is subtracted from the note area when fitting a
// justified voice to a stave, leaving breathing room at the bar line.
func DefaultStavePadding(eng glyph.Engraving) float64 {
	return eng.StavePadding + eng.EndPaddingMax
}

// NewStave creates a stave at (x, y) with the given total width.
func NewStave(x, y, width float64) *Stave {
	return &Stave{
		x:           x,
		y:           y,
		width:       width,
		numLines:    5,
		lineSpacing: 10,
		startOffset: 5,
		eng:         glyph.DefaultEngraving(),
	}
}

// AddClef reserves room for a clef at the start of the stave.
func (s *Stave) AddClef() *Stave {
	s.startOffset += clefWidth
	return s
}

// AddKeySignature reserves room for numAccidentals key accidentals.
func (s *Stave) AddKeySignature(numAccidentals int) *Stave {
	s.startOffset += float64(numAccidentals) * keyAccidentalWidth
	return s
}

// AddTimeSignature reserves room for a time signature.
func (s *Stave) AddTimeSignature() *Stave {
	s.startOffset += timeSignatureWidth
	return s
}

const (
	clefWidth          = 24.0
	keyAccidentalWidth = 10.0
	timeSignatureWidth = 16.0
)

// X returns the stave's left edge.
func (s *Stave) X() float64 { return s.x }

// Y returns the y of the top stave line.
func (s *Stave) Y() float64 { return s.y }

// Width returns the stave's total width.
func (s *Stave) Width() float64 { return s.width }

// NumLines returns the number of stave lines.
func (s *Stave) NumLines() int { return s.numLines }

// LineSpacing returns the distance between adjacent stave lines.
func (s *Stave) LineSpacing() float64 { return s.lineSpacing }

// SpacingBetweenLines is an alias for LineSpacing kept for symmetry with
// half-line accidental arithmetic.
func (s *Stave) SpacingBetweenLines() float64 { return s.lineSpacing }

// NoteStartX returns the x where the note area begins.
func (s *Stave) NoteStartX() float64 { return s.x + s.startOffset }

// NoteEndX returns the x where the note area ends.
func (s *Stave) NoteEndX() float64 { return s.x + s.width }

// NoteAreaWidth returns the width available to justified content, less the
// default padding.
func (s *Stave) NoteAreaWidth() float64 {
	return s.NoteEndX() - s.NoteStartX() - DefaultStavePadding(s.eng)
}

// YForLine converts a stave line (bottom line = 1, half-lines allowed)
// into a y coordinate.
func (s *Stave) YForLine(line float64) float64 {
	return s.y + (float64(s.numLines)-line)*s.lineSpacing
}

// BottomY returns the y of the bottom stave line.
func (s *Stave) BottomY() float64 { return s.YForLine(1) }
