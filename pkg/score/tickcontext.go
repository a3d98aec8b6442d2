package score

import (
	"math"

	"github.com/stavekit/stavekit/pkg/fraction"
)

// TickContext collects the tickables from every voice that start at the
// same tick offset. It aggregates their width requirements into a single
// horizontal slot and owns that slot's x position.
type TickContext struct {
	// tickID is the integer tick offset at the common resolution.
	tickID int64

	tickables        []Tickable
	tickablesByVoice map[int]Tickable

	maxTicks    fraction.Fraction
	maxTickable Tickable
	minTicks    *fraction.Fraction
	minTickable Tickable

	x             float64
	xBase         float64
	xOffset       float64
	preFormatted  bool
	postFormatted bool

	// Aggregated metrics: the max over all member tickables.
	notePx               float64
	glyphPx              float64
	leftDisplacedHeadPx  float64
	rightDisplacedHeadPx float64
	modLeftPx            float64
	modRightPx           float64
	totalLeftPx          float64
	totalRightPx         float64
	width                float64

	// contexts is the shared ordered array of all sibling contexts, wired
	// by the formatter for neighbor traversal.
	contexts []*TickContext

	fmtMetrics FormatterMetrics
}

// NewTickContext creates an empty context for the given integer tick.
func NewTickContext(tickID int64) *TickContext {
	return &TickContext{
		tickID:           tickID,
		tickablesByVoice: make(map[int]Tickable),
	}
}

// TickID returns the context's integer tick offset at the common
// resolution.
func (tc *TickContext) TickID() int64 { return tc.tickID }

// Tickables returns the member tickables.
func (tc *TickContext) Tickables() []Tickable { return tc.tickables }

// TickablesByVoice maps voice index to the member from that voice.
func (tc *TickContext) TickablesByVoice() map[int]Tickable { return tc.tickablesByVoice }

// MaxTicks returns the longest member duration, and the member holding it.
func (tc *TickContext) MaxTicks() (fraction.Fraction, Tickable) {
	return tc.maxTicks, tc.maxTickable
}

// MinTicks returns the shortest member duration, or nil when empty.
func (tc *TickContext) MinTicks() (*fraction.Fraction, Tickable) {
	return tc.minTicks, tc.minTickable
}

// AddTickable attaches a tickable under its voice index. Tickables that
// ignore ticks (bar markers) join the context but not the duration
// bookkeeping.
func (tc *TickContext) AddTickable(t Tickable, voiceIndex int) *TickContext {
	if !t.ShouldIgnoreTicks() {
		ticks := t.Ticks()
		if ticks.GreaterThan(tc.maxTicks) || tc.maxTickable == nil {
			tc.maxTicks = ticks
			tc.maxTickable = t
		}
		if tc.minTicks == nil || ticks.LessThan(*tc.minTicks) {
			v := ticks
			tc.minTicks = &v
			tc.minTickable = t
		}
	}
	tc.preFormatted = false
	tc.tickables = append(tc.tickables, t)
	tc.tickablesByVoice[voiceIndex] = t
	t.SetTickContext(tc)
	return tc
}

// SetContexts wires the shared ordered sibling array.
func (tc *TickContext) SetContexts(contexts []*TickContext) { tc.contexts = contexts }

// Contexts returns the shared ordered sibling array.
func (tc *TickContext) Contexts() []*TickContext { return tc.contexts }

// X returns the context's assigned position.
func (tc *TickContext) X() float64 { return tc.x }

// SetX moves the context and every member tickable to x.
func (tc *TickContext) SetX(x float64) {
	tc.x = x
	tc.xBase = x
	tc.xOffset = 0
	for _, t := range tc.tickables {
		t.SetX(x)
	}
}

// XBase returns the pre-shift x position.
func (tc *TickContext) XBase() float64 { return tc.xBase }

// SetXBase sets the pre-shift position, preserving the shift offset.
func (tc *TickContext) SetXBase(xBase float64) {
	tc.xBase = xBase
	tc.x = xBase + tc.xOffset
	for _, t := range tc.tickables {
		t.SetX(tc.x)
	}
}

// XOffset returns the post-format shift.
func (tc *TickContext) XOffset() float64 { return tc.xOffset }

// SetXOffset shifts the context off its base position.
func (tc *TickContext) SetXOffset(xOffset float64) {
	tc.xOffset = xOffset
	tc.x = tc.xBase + tc.xOffset
	for _, t := range tc.tickables {
		t.SetX(tc.x)
	}
}

// Width returns the slot width computed by PreFormat.
func (tc *TickContext) Width() float64 { return tc.width }

// Metrics reports the aggregated space requirements of the slot.
func (tc *TickContext) Metrics() Metrics {
	return Metrics{
		Width:                tc.width,
		NotePx:               tc.notePx,
		GlyphPx:              tc.glyphPx,
		ModLeftPx:            tc.modLeftPx,
		ModRightPx:           tc.modRightPx,
		LeftDisplacedHeadPx:  tc.leftDisplacedHeadPx,
		RightDisplacedHeadPx: tc.rightDisplacedHeadPx,
	}
}

// TotalLeftPx returns the aggregated leading clearance.
func (tc *TickContext) TotalLeftPx() float64 { return tc.totalLeftPx }

// TotalRightPx returns the aggregated trailing clearance.
func (tc *TickContext) TotalRightPx() float64 { return tc.totalRightPx }

// FormatterMetrics returns the context's formatter record (freedom is
// maintained by Formatter.Evaluate).
func (tc *TickContext) FormatterMetrics() *FormatterMetrics { return &tc.fmtMetrics }

// CenterAlignedTickables returns the members that center within the
// formatted width.
func (tc *TickContext) CenterAlignedTickables() []Tickable {
	var centered []Tickable
	for _, t := range tc.tickables {
		if t.CenterAligned() {
			centered = append(centered, t)
		}
	}
	return centered
}

// PreFormat asks every member to compute its metrics, then aggregates the
// maxima into the slot's requirements.
func (tc *TickContext) PreFormat() *TickContext {
	if tc.preFormatted {
		return tc
	}
	for _, t := range tc.tickables {
		t.PreFormat()
		m := t.Metrics()
		tc.leftDisplacedHeadPx = math.Max(tc.leftDisplacedHeadPx, m.LeftDisplacedHeadPx)
		tc.rightDisplacedHeadPx = math.Max(tc.rightDisplacedHeadPx, m.RightDisplacedHeadPx)
		tc.notePx = math.Max(tc.notePx, m.NotePx)
		tc.glyphPx = math.Max(tc.glyphPx, m.GlyphPx)
		tc.modLeftPx = math.Max(tc.modLeftPx, m.ModLeftPx)
		tc.modRightPx = math.Max(tc.modRightPx, m.ModRightPx)
		tc.totalLeftPx = math.Max(tc.totalLeftPx, m.ModLeftPx+m.LeftDisplacedHeadPx)
		tc.totalRightPx = math.Max(tc.totalRightPx, m.ModRightPx+m.RightDisplacedHeadPx+m.GlyphPx)
		tc.width = tc.notePx + tc.totalLeftPx + tc.totalRightPx
	}
	tc.preFormatted = true
	return tc
}

// PostFormat runs the members' post-format hooks once.
func (tc *TickContext) PostFormat() *TickContext {
	if tc.postFormatted {
		return tc
	}
	for _, t := range tc.tickables {
		t.PostFormat()
	}
	tc.postFormatted = true
	return tc
}
