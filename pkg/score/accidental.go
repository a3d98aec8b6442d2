package score

import (
	"math"
	"sort"

	"github.com/stavekit/stavekit/pkg/glyph"
)

// Accidental alters the pitch of one chord member and renders to the left
// of the notehead. When several accidentals stack vertically at one tick,
// FormatAccidentals packs them into non-overlapping columns.
type Accidental struct {
	ModifierBase

	// Type is one of "#", "##", "b", "bb", "n".
	Type string

	// Cautionary accidentals render in parentheses and need extra room.
	Cautionary bool
}

// NewAccidental returns an accidental of the given type.
func NewAccidental(accType string) *Accidental {
	a := &Accidental{Type: accType}
	a.SetWidth(glyph.AccidentalWidth(accType))
	return a
}

func (a *Accidental) Category() string { return CategoryAccidental }

// Width returns the glyph width, widened when cautionary parentheses wrap
// the accidental.
func (a *Accidental) Width() float64 {
	w := a.ModifierBase.Width()
	if a.Cautionary {
		w += cautionaryParenWidth
	}
	return w
}

const cautionaryParenWidth = 4.0

// lineMetrics aggregates the accidentals that landed on one stave line
// (half-line granularity).
type lineMetrics struct {
	line float64

	// flatLine is true while every accidental on the line is a flat or
	// double flat; dblSharpLine while every one is a double sharp. Both
	// glyphs are vertically compact, which relaxes the clearance needed
	// against neighboring lines.
	flatLine     bool
	dblSharpLine bool

	numAcc int
	width  float64
	column int
}

// checkCollision reports whether accidentals on two stave lines overlap
// vertically. The base clearance is 3 half-line units, reduced to 2.5 when
// the upper line holds only flats or double sharps, with a further 0.5
// credit when the lower line holds only double sharps.
func checkCollision(line1, line2 lineMetrics) bool {
	clearance := line2.line - line1.line
	clearanceRequired := 3.0
	if clearance > 0 {
		// line2 on top.
		if line2.flatLine || line2.dblSharpLine {
			clearanceRequired = 2.5
		}
		if line1.dblSharpLine {
			clearance -= 0.5
		}
	} else {
		// line1 on top.
		if line1.flatLine || line1.dblSharpLine {
			clearanceRequired = 2.5
		}
		if line2.dblSharpLine {
			clearance -= 0.5
		}
	}
	return math.Abs(clearance) < clearanceRequired
}

// accidentalColumns is the canonical column table for conflict groups of up
// to six lines, keyed by group size and end-case classifier. These layouts
// reproduce established engraving convention and are fixed data; they are
// not derived.
var accidentalColumns = map[int]map[string][]int{
	1: {"a": {1}, "b": {1}},
	2: {"a": {1, 2}, "b": {1, 2}},
	3: {
		"a":                {1, 3, 2},
		"b":                {1, 2, 1},
		"second_on_bottom": {1, 2, 3},
	},
	4: {
		"a":                     {1, 3, 4, 2},
		"b":                     {1, 2, 3, 1},
		"spaced_out_tetrachord": {1, 2, 1, 2},
	},
	5: {
		"a":                          {1, 3, 5, 4, 2},
		"b":                          {1, 2, 4, 3, 1},
		"spaced_out_pentachord":      {1, 2, 3, 2, 1},
		"very_spaced_out_pentachord": {1, 2, 1, 2, 1},
	},
	6: {
		"a":                         {1, 3, 5, 6, 4, 2},
		"b":                         {1, 2, 4, 5, 3, 1},
		"spaced_out_hexachord":      {1, 3, 2, 1, 3, 2},
		"very_spaced_out_hexachord": {1, 2, 1, 2, 1, 2},
	},
}

// FormatAccidentals resolves the horizontal layout of all accidentals in
// one modifier context. Each accidental receives an x-shift; the total
// width consumed is added to state.LeftShift so modifiers further from the
// notehead stack correctly.
func FormatAccidentals(accidentals []*Accidental, state *ModifierState, eng glyph.Engraving) {
	if len(accidentals) == 0 {
		return
	}

	leftShift := state.LeftShift + eng.NoteheadAccidentalPadding

	type placedAcc struct {
		line  float64
		shift float64
		acc   *Accidental
	}

	// Map accidentals to stave lines, tracking the extra room displaced
	// noteheads demand.
	accList := make([]placedAcc, 0, len(accidentals))
	var prevNote *Note
	var extraXSpace float64
	for _, acc := range accidentals {
		note := acc.Note()
		line := 0.0
		if note != nil {
			props := note.KeyProps()
			if idx := acc.Index(); idx >= 0 && idx < len(props) {
				line = props[idx].Line
			}
			if note != prevNote {
				extraXSpace = math.Max(note.Metrics().LeftDisplacedHeadPx-note.XShift(), extraXSpace)
				prevNote = note
			}
		}
		accList = append(accList, placedAcc{line: line, shift: extraXSpace, acc: acc})
	}

	// Top of the stave first.
	sort.SliceStable(accList, func(i, j int) bool { return accList[i].line > accList[j].line })

	// Bucket by exact line value.
	var lineList []lineMetrics
	var accShift float64
	prevLine := math.Inf(1)
	for _, pa := range accList {
		if pa.line != prevLine || len(lineList) == 0 {
			lineList = append(lineList, lineMetrics{line: pa.line, flatLine: true, dblSharpLine: true})
			prevLine = pa.line
		}
		lm := &lineList[len(lineList)-1]
		if pa.acc.Type != "b" && pa.acc.Type != "bb" {
			lm.flatLine = false
		}
		if pa.acc.Type != "##" {
			lm.dblSharpLine = false
		}
		lm.numAcc++
		lm.width += pa.acc.Width() + eng.AccidentalSpacing
		accShift = math.Max(accShift, pa.shift)
	}

	totalColumns := assignColumns(lineList)

	// Convert columns to x offsets. Column widths hold the widest line
	// assigned to each column, which keeps the columns parallel. Column
	// zero carries the space already consumed left of the notehead, so
	// every accidental clears the modifiers placed before this pass.
	columnWidths := make([]float64, totalColumns+1)
	columnXOffsets := make([]float64, totalColumns+1)
	columnWidths[0] = accShift + leftShift
	columnXOffsets[0] = accShift + leftShift
	for _, lm := range lineList {
		if lm.width > columnWidths[lm.column] {
			columnWidths[lm.column] = lm.width
		}
	}
	for i := 1; i < len(columnWidths); i++ {
		columnXOffsets[i] = columnWidths[i] + columnXOffsets[i-1]
	}
	totalShift := columnXOffsets[len(columnXOffsets)-1]

	// Shift each accidental to its column, accumulating width along lines
	// that hold more than one accidental.
	accCount := 0
	for _, lm := range lineList {
		var lineWidth float64
		for last := accCount + lm.numAcc; accCount < last; accCount++ {
			xShift := columnXOffsets[lm.column-1] + lineWidth
			accList[accCount].acc.SetXShift(xShift)
			lineWidth += accList[accCount].acc.Width() + eng.AccidentalSpacing
		}
	}

	// totalShift already includes the incoming left shift, so the
	// assignment accumulates on top of earlier modifier passes.
	state.LeftShift = totalShift + eng.AccidentalLeftPadding
}

// assignColumns partitions lineList into maximal contiguous conflict groups
// and assigns a 1-based column to every line. It returns the number of
// columns used.
func assignColumns(lineList []lineMetrics) int {
	totalColumns := 0
	for i := 0; i < len(lineList); i++ {
		groupStart := i
		groupEnd := i
		for groupEnd+1 < len(lineList) && checkCollision(lineList[groupEnd], lineList[groupEnd+1]) {
			groupEnd++
		}

		groupLine := func(idx int) lineMetrics { return lineList[groupStart+idx] }
		lineDiff := func(a, b int) float64 { return groupLine(a).line - groupLine(b).line }
		notColliding := func(pairs ...[2]int) bool {
			for _, p := range pairs {
				if checkCollision(groupLine(p[0]), groupLine(p[1])) {
					return false
				}
			}
			return true
		}

		groupLength := groupEnd - groupStart + 1

		// Classify the group's shape. The sub-patterns for sizes 3-6 pick
		// the conventional spaced-out or triangular layouts when inner
		// pairs leave room.
		endCase := "b"
		if checkCollision(lineList[groupStart], lineList[groupEnd]) {
			endCase = "a"
		}
		switch groupLength {
		case 3:
			if endCase == "b" && lineDiff(1, 2) == 0.5 && lineDiff(0, 1) != 0.5 {
				endCase = "second_on_bottom"
			}
		case 4:
			if notColliding([2]int{0, 2}, [2]int{1, 3}) {
				endCase = "spaced_out_tetrachord"
			}
		case 5:
			if endCase == "b" && notColliding([2]int{1, 3}) {
				endCase = "spaced_out_pentachord"
				if notColliding([2]int{0, 2}, [2]int{2, 4}) {
					endCase = "very_spaced_out_pentachord"
				}
			}
		case 6:
			if notColliding([2]int{0, 3}, [2]int{1, 4}, [2]int{2, 5}) {
				endCase = "spaced_out_hexachord"
			}
			if notColliding([2]int{0, 2}, [2]int{2, 4}, [2]int{1, 3}, [2]int{3, 5}) {
				endCase = "very_spaced_out_hexachord"
			}
		}

		if groupLength >= 7 {
			// Ascending parallel columns: find the smallest repeat period
			// at which lines no longer collide.
			patternLength := 2
			for collision := true; collision; {
				collision = false
				for line := groupStart; line+patternLength <= groupEnd; line++ {
					if checkCollision(lineList[line], lineList[line+patternLength]) {
						collision = true
						patternLength++
						break
					}
				}
			}
			for member := groupStart; member <= groupEnd; member++ {
				column := (member-groupStart)%patternLength + 1
				lineList[member].column = column
				if column > totalColumns {
					totalColumns = column
				}
			}
		} else {
			columns := accidentalColumns[groupLength][endCase]
			for member := groupStart; member <= groupEnd; member++ {
				column := columns[member-groupStart]
				lineList[member].column = column
				if column > totalColumns {
					totalColumns = column
				}
			}
		}

		i = groupEnd
	}
	return totalColumns
}
