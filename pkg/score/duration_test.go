package score

import (
	"testing"

	"github.com/stavekit/stavekit/pkg/fraction"
	"github.com/stavekit/stavekit/pkg/glyph"
)

func TestDurationToTicks(t *testing.T) {
	tests := []struct {
		code string
		dots int
		want fraction.Fraction
	}{
		{"1", 0, fraction.New(glyph.Resolution, 1)},
		{"4", 0, fraction.New(glyph.Resolution/4, 1)},
		{"64", 0, fraction.New(glyph.Resolution/64, 1)},
		// One dot adds half, two dots add three quarters.
		{"4", 1, fraction.New(glyph.Resolution/4*3, 2)},
		{"2", 2, fraction.New(glyph.Resolution/2*7, 4)},
	}
	for _, tt := range tests {
		got, err := DurationToTicks(tt.code, tt.dots)
		if err != nil {
			t.Errorf("DurationToTicks(%q, %d): %v", tt.code, tt.dots, err)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("DurationToTicks(%q, %d) = %v, want %v", tt.code, tt.dots, got, tt.want)
		}
	}
}

func TestDurationToTicksUnknownCode(t *testing.T) {
	if _, err := DurationToTicks("3", 0); err == nil {
		t.Error("unknown code accepted, want error")
	}
}

func TestTimeSignatureTotalTicks(t *testing.T) {
	tests := []struct {
		ts   TimeSignature
		want int64
	}{
		{CommonTime, glyph.Resolution},
		{TimeSignature{NumBeats: 3, BeatValue: 4}, glyph.Resolution / 4 * 3},
		{TimeSignature{NumBeats: 6, BeatValue: 8}, glyph.Resolution / 8 * 6},
	}
	for _, tt := range tests {
		if got := tt.ts.TotalTicks(); !got.Equals(fraction.New(tt.want, 1)) {
			t.Errorf("%s total ticks = %v, want %d", tt.ts, got, tt.want)
		}
	}
}
