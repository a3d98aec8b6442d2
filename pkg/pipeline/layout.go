package pipeline

import (
	"encoding/json"

	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/score"
)

// =============================================================================
// Serializable Layout
// =============================================================================

// Layout is the serializable result of the format stage: one entry per
// tick context with its resolved horizontal position. It is what the
// cache stores and what the "json" artifact emits.
type Layout struct {
	// Width is the justified width the layout was computed for.
	Width float64 `json:"width"`

	// Cost is the total deviation cost reported by the evaluator.
	Cost float64 `json:"cost"`

	// LossHistory holds the cost after the initial format and after each
	// tuning step.
	LossHistory []float64 `json:"loss_history,omitempty"`

	// Contexts are the positioned tick contexts in tick order.
	Contexts []ContextLayout `json:"contexts"`

	// Gaps are the empty horizontal regions between adjacent contexts.
	Gaps []format.Gap `json:"gaps,omitempty"`
}

// ContextLayout is the position of a single tick context.
type ContextLayout struct {
	Tick  int64   `json:"tick"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`

	// CenterShift is the extra shift applied to center-aligned members
	// (whole-bar rests), zero otherwise.
	CenterShift float64 `json:"center_shift,omitempty"`
}

// MarshalLayout serializes a layout for caching and the json artifact.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout deserializes a cached layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ExportLayout captures a formatter's positioned contexts into the
// serializable form.
func ExportLayout(f *format.Formatter, width float64) Layout {
	contexts := f.TickContexts()
	gaps, _ := f.ContextGaps()

	l := Layout{
		Width:       width,
		Cost:        f.TotalCost(),
		LossHistory: f.LossHistory(),
		Contexts:    make([]ContextLayout, len(contexts)),
		Gaps:        gaps,
	}
	for i, ctx := range contexts {
		entry := ContextLayout{
			Tick:  ctx.TickID(),
			X:     ctx.X(),
			Width: ctx.Width(),
		}
		if centered := ctx.CenterAlignedTickables(); len(centered) > 0 {
			entry.CenterShift = centered[0].CenterXShift()
		}
		l.Contexts[i] = entry
	}
	return l
}

// ApplyLayout replays a cached layout onto freshly created tick contexts.
// The contexts must come from the same score document the layout was
// computed for; positions are matched by index and verified by tick.
func ApplyLayout(contexts []*score.TickContext, l Layout) bool {
	if len(contexts) != len(l.Contexts) {
		return false
	}
	for i, ctx := range contexts {
		if ctx.TickID() != l.Contexts[i].Tick {
			return false
		}
	}
	for i, ctx := range contexts {
		entry := l.Contexts[i]
		ctx.PreFormat()
		ctx.SetX(entry.X)
		for _, t := range ctx.CenterAlignedTickables() {
			t.SetCenterXShift(entry.CenterShift)
		}
	}
	return true
}
