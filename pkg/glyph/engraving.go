package glyph

// Engraving holds the tunable spacing constants used by the formatter.
// The defaults reproduce conventional engraving; callers may override
// individual values (the CLI exposes them through the [engraving] table of
// a score file).
type Engraving struct {
	// UnalignedNotePadding is the extra width added per tick position where
	// not every voice has an event.
	UnalignedNotePadding float64

	// EndPaddingMin and EndPaddingMax bound the whitespace the justifier
	// leaves after the final tick context.
	EndPaddingMin float64
	EndPaddingMax float64

	// StavePadding is the fixed clearance between the stave's note start
	// position and the first tick context.
	StavePadding float64

	// AccidentalSpacing is the horizontal gap between two accidentals that
	// share a stave line.
	AccidentalSpacing float64

	// NoteheadAccidentalPadding is the clearance between an accidental
	// column and the notehead it precedes.
	NoteheadAccidentalPadding float64

	// AccidentalLeftPadding is the clearance added to the left of a fully
	// laid out accidental stack.
	AccidentalLeftPadding float64
}

// DefaultEngraving returns the stock engraving constants.
func DefaultEngraving() Engraving {
	return Engraving{
		UnalignedNotePadding:      10,
		EndPaddingMin:             5,
		EndPaddingMax:             10,
		StavePadding:              12,
		AccidentalSpacing:         3,
		NoteheadAccidentalPadding: 1,
		AccidentalLeftPadding:     2,
	}
}
