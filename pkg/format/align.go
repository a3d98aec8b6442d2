package format

import (
	"math"

	"github.com/stavekit/stavekit/pkg/score"
)

// AlignRestsToNotes moves movable rests onto the stave lines of their
// neighboring notes so a rest inside a melodic run sits at the run's
// height. Only beamed rests move unless alignAllNotes is set; rests in
// tuplets move only when alignTuplets is set. Pinned and center-aligned
// rests never move.
func AlignRestsToNotes(tickables []score.Tickable, alignAllNotes, alignTuplets bool) {
	for i, t := range tickables {
		rest, ok := t.(*score.Note)
		if !ok || !rest.IsRest() || rest.RestPinned() || rest.CenterAligned() {
			continue
		}
		if rest.Tuplet() != nil && !alignTuplets {
			continue
		}
		if !alignAllNotes && !rest.Beamed() {
			continue
		}
		prev, prevOK := neighborNoteLine(tickables, i, -1)
		next, nextOK := neighborNoteLine(tickables, i, +1)
		switch {
		case prevOK && nextOK:
			rest.SetRestLine(roundToHalfLine((prev + next) / 2))
		case prevOK:
			rest.SetRestLine(roundToHalfLine(prev))
		case nextOK:
			rest.SetRestLine(roundToHalfLine(next))
		}
	}
}

// neighborNoteLine scans from index from in direction step for the
// nearest pitched note and returns its mean chord line.
func neighborNoteLine(tickables []score.Tickable, from, step int) (float64, bool) {
	for i := from + step; i >= 0 && i < len(tickables); i += step {
		n, ok := tickables[i].(*score.Note)
		if !ok || n.IsRest() || n.ShouldIgnoreTicks() {
			continue
		}
		props := n.KeyProps()
		if len(props) == 0 {
			continue
		}
		sum := 0.0
		for _, p := range props {
			sum += p.Line
		}
		return sum / float64(len(props)), true
	}
	return 0, false
}

// roundToHalfLine snaps a line to the half-line grid rests render on.
func roundToHalfLine(line float64) float64 {
	return math.Round(line*2) / 2
}
