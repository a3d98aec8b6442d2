// Package glyph provides the metric tables the layout engine consumes.
//
// The formatter treats every glyph as an opaque box: all it needs is the
// horizontal space a notehead, rest, or accidental occupies on the stave.
// The numbers here are expressed in stave-space units for a 10px line
// spacing and were taken from conventional engraving proportions. Rendering
// backends are free to draw whatever they like inside those boxes.
package glyph

// Resolution is the number of ticks in a whole note. All durations divide
// it exactly down to 1/64 notes with triplet and dotted variants.
const Resolution = 16384

// Widths of noteheads by duration class, in pixels.
const (
	WidthNoteheadWhole = 12.3
	WidthNoteheadHalf  = 10.5
	WidthNoteheadBlack = 10.5 // quarter and shorter
)

// Rest glyph widths by duration class, in pixels.
var restWidths = map[string]float64{
	"1":  12.5,
	"2":  10.5,
	"4":  10.2,
	"8":  10.0,
	"16": 10.8,
	"32": 12.1,
	"64": 12.8,
}

// Accidental glyph widths, in pixels.
var accidentalWidths = map[string]float64{
	"#":  10.0,
	"##": 11.1,
	"b":  8.2,
	"bb": 14.1,
	"n":  8.5,
}

// NoteheadWidth returns the notehead width for a duration code ("1", "2",
// "4", "8", ...). Unknown codes get the black notehead width.
func NoteheadWidth(duration string) float64 {
	switch duration {
	case "1":
		return WidthNoteheadWhole
	case "2":
		return WidthNoteheadHalf
	default:
		return WidthNoteheadBlack
	}
}

// RestWidth returns the rest glyph width for a duration code.
func RestWidth(duration string) float64 {
	if w, ok := restWidths[duration]; ok {
		return w
	}
	return restWidths["4"]
}

// AccidentalWidth returns the glyph width for an accidental type
// ("#", "##", "b", "bb", "n"). Unknown types report zero width.
func AccidentalWidth(accType string) float64 {
	return accidentalWidths[accType]
}
