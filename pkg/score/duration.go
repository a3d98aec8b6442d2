package score

import (
	"fmt"

	"github.com/stavekit/stavekit/pkg/fraction"
	"github.com/stavekit/stavekit/pkg/glyph"
)

// durationTicks maps a duration code to its length in ticks.
var durationTicks = map[string]int64{
	"1":  glyph.Resolution,
	"2":  glyph.Resolution / 2,
	"4":  glyph.Resolution / 4,
	"8":  glyph.Resolution / 8,
	"16": glyph.Resolution / 16,
	"32": glyph.Resolution / 32,
	"64": glyph.Resolution / 64,
}

// DurationToTicks converts a duration code ("1", "2", "4", ...) and a dot
// count into an exact tick fraction. Each dot extends the value by half the
// previous extension.
func DurationToTicks(code string, dots int) (fraction.Fraction, error) {
	base, ok := durationTicks[code]
	if !ok {
		return fraction.Fraction{}, fmt.Errorf("unknown duration code %q", code)
	}
	ticks := fraction.New(base, 1)
	ext := fraction.New(base, 2)
	for i := 0; i < dots; i++ {
		ticks = ticks.Add(ext)
		ext = ext.Divide(fraction.New(2, 1))
	}
	return ticks, nil
}

// TimeSignature declares how many ticks a complete voice holds.
type TimeSignature struct {
	NumBeats  int
	BeatValue int
}

// CommonTime is the 4/4 time signature.
var CommonTime = TimeSignature{NumBeats: 4, BeatValue: 4}

// TotalTicks returns the exact tick count of one measure in this signature.
func (ts TimeSignature) TotalTicks() fraction.Fraction {
	return fraction.New(int64(ts.NumBeats)*(glyph.Resolution/int64(ts.BeatValue)), 1)
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.NumBeats, ts.BeatValue)
}
