package score

import (
	"math"

	"github.com/stavekit/stavekit/pkg/errors"
	"github.com/stavekit/stavekit/pkg/fraction"
)

// VoiceMode controls how strictly a voice enforces its declared duration.
type VoiceMode int

const (
	// StrictMode requires the tickables to exactly fill the declared total.
	StrictMode VoiceMode = iota

	// SoftMode allows partial voices; no completeness check is made.
	SoftMode

	// FullMode allows underfull voices but still rejects overflow.
	FullMode
)

// DefaultSoftmaxFactor weights proportional spacing toward longer
// durations. Larger factors spread long notes further apart.
const DefaultSoftmaxFactor = 100

// Voice is one musical line: an ordered sequence of tickables with a
// declared total duration taken from a time signature.
type Voice struct {
	time       TimeSignature
	totalTicks fraction.Fraction
	ticksUsed  fraction.Fraction
	mode       VoiceMode

	tickables            []Tickable
	smallestTickCount    fraction.Fraction
	resolutionMultiplier int64

	softmaxFactor float64
	expTicksUsed  float64

	stave *Stave
}

// NewVoice creates an empty strict voice in the given time signature.
func NewVoice(time TimeSignature) *Voice {
	return &Voice{
		time:                 time,
		totalTicks:           time.TotalTicks(),
		ticksUsed:            fraction.New(0, 1),
		smallestTickCount:    time.TotalTicks(),
		resolutionMultiplier: 1,
		softmaxFactor:        DefaultSoftmaxFactor,
	}
}

// SetMode selects strict, soft, or full tick accounting.
func (v *Voice) SetMode(mode VoiceMode) *Voice {
	v.mode = mode
	return v
}

// Mode returns the voice's tick accounting mode.
func (v *Voice) Mode() VoiceMode { return v.mode }

// SetSoftmaxFactor overrides the spacing weight base.
func (v *Voice) SetSoftmaxFactor(factor float64) *Voice {
	v.softmaxFactor = factor
	v.expTicksUsed = 0
	return v
}

// SoftmaxFactor returns the current spacing weight base.
func (v *Voice) SoftmaxFactor() float64 { return v.softmaxFactor }

// Time returns the voice's time signature.
func (v *Voice) Time() TimeSignature { return v.time }

// TotalTicks returns the declared duration of the voice.
func (v *Voice) TotalTicks() fraction.Fraction { return v.totalTicks }

// TicksUsed returns the accumulated duration of the added tickables.
func (v *Voice) TicksUsed() fraction.Fraction { return v.ticksUsed }

// SmallestTickCount returns the shortest tickable duration seen so far.
func (v *Voice) SmallestTickCount() fraction.Fraction { return v.smallestTickCount }

// Tickables returns the voice's tickables in musical order. The slice is
// the voice's own; callers must not reorder it.
func (v *Voice) Tickables() []Tickable { return v.tickables }

// Stave returns the stave every tickable of the voice is assigned to.
func (v *Voice) Stave() *Stave { return v.stave }

// SetStave assigns the voice and all current tickables to a stave.
func (v *Voice) SetStave(s *Stave) *Voice {
	v.stave = s
	for _, t := range v.tickables {
		t.SetStave(s)
	}
	return v
}

// IsComplete reports whether the used ticks exactly match the declared
// total. Soft voices are always complete.
func (v *Voice) IsComplete() bool {
	if v.mode == StrictMode || v.mode == FullMode {
		return v.ticksUsed.Equals(v.totalTicks)
	}
	return true
}

// ResolutionMultiplier returns the factor needed to express this voice's
// tick offsets as integers: the denominator of the unsimplified ticks-used
// accumulator.
func (v *Voice) ResolutionMultiplier() int64 { return v.resolutionMultiplier }

// AddTickable appends one tickable, updating tick accounting. Overflowing
// a strict or full voice returns a TOO_MANY_TICKS error and leaves the
// voice unchanged.
func (v *Voice) AddTickable(t Tickable) error {
	if !t.ShouldIgnoreTicks() {
		ticks := t.Ticks()
		v.ticksUsed = v.ticksUsed.Add(ticks)
		v.expTicksUsed = 0
		if (v.mode == StrictMode || v.mode == FullMode) && v.ticksUsed.GreaterThan(v.totalTicks) {
			v.ticksUsed = v.ticksUsed.Subtract(ticks)
			return errors.New(errors.ErrCodeTooManyTicks, "voice overflows %s", v.time)
		}
		if ticks.LessThan(v.smallestTickCount) {
			v.smallestTickCount = ticks
		}
		v.resolutionMultiplier = v.ticksUsed.Denominator
		// Keep the total on the accumulator's denominator so completeness
		// comparisons stay on one resolution.
		v.totalTicks = v.totalTicks.Add(fraction.New(0, v.ticksUsed.Denominator))
	}
	v.tickables = append(v.tickables, t)
	t.SetVoice(v)
	return nil
}

// AddTickables appends tickables in order, stopping at the first error.
func (v *Voice) AddTickables(ts []Tickable) error {
	for _, t := range ts {
		if err := v.AddTickable(t); err != nil {
			return err
		}
	}
	return nil
}

// Softmax returns the spacing weight in (0, 1] for a duration of tickValue
// ticks: factor^(t/total) normalized over all tickables in the voice.
// Longer durations receive proportionally more space.
func (v *Voice) Softmax(tickValue float64) float64 {
	if v.expTicksUsed == 0 {
		for _, t := range v.tickables {
			v.expTicksUsed += v.exp(t.Ticks().Value())
		}
	}
	if v.expTicksUsed == 0 {
		return 0
	}
	return v.exp(tickValue) / v.expTicksUsed
}

func (v *Voice) exp(tickValue float64) float64 {
	return math.Pow(v.softmaxFactor, tickValue/v.totalTicks.Value())
}
