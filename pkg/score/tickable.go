package score

import "github.com/stavekit/stavekit/pkg/fraction"

// Metrics describes the horizontal space a tickable needs, split into the
// regions the formatter reasons about separately.
type Metrics struct {
	// Width is the total width including modifiers and displaced heads.
	Width float64

	// NotePx is the width of the note glyph itself.
	NotePx float64

	// GlyphPx is the width of note-enclosing glyphs such as parentheses.
	GlyphPx float64

	// ModLeftPx and ModRightPx are the widths consumed by modifiers to the
	// left (accidentals) and right (dots) of the note.
	ModLeftPx  float64
	ModRightPx float64

	// LeftDisplacedHeadPx and RightDisplacedHeadPx account for noteheads
	// shifted off the stem by seconds in a chord.
	LeftDisplacedHeadPx  float64
	RightDisplacedHeadPx float64
}

// SpaceMetrics records the spacing the formatter realized for a tickable.
type SpaceMetrics struct {
	Used      float64
	Mean      float64
	Deviation float64
}

// FreedomMetrics records how far a tickable or context may move without
// touching its neighbors.
type FreedomMetrics struct {
	Left  float64
	Right float64
}

// FormatterMetrics is the record the formatter maintains on every tickable
// across formatting and tuning passes.
type FormatterMetrics struct {
	LeftShift  float64
	RightShift float64
	Space      SpaceMetrics
	Freedom    FreedomMetrics

	// Duration is the simplified tick fraction, used to group tickables
	// into duration classes when measuring spacing uniformity.
	Duration string

	// Iterations counts how many evaluate passes have touched this record.
	Iterations int
}

// Tickable is implemented by every object that occupies musical time and
// participates in formatting. The formatter depends only on this interface;
// concrete note types live behind it.
type Tickable interface {
	// Ticks returns the exact duration in ticks.
	Ticks() fraction.Fraction

	// ShouldIgnoreTicks reports whether the object takes part in tick
	// accounting. Bar markers render at a tick position but consume none.
	ShouldIgnoreTicks() bool

	// IsRest reports whether the tickable is a rest. This is the one
	// capability the formatter queries explicitly, for rest alignment.
	IsRest() bool

	// CenterAligned tickables (whole-bar rests) are centered within the
	// formatted width rather than spaced proportionally.
	CenterAligned() bool
	CenterXShift() float64
	SetCenterXShift(shift float64)

	// PreFormat computes the tickable's metrics. It must be called before
	// Width or Metrics are read.
	PreFormat()
	PostFormat()

	Width() float64
	Metrics() Metrics
	FormatterMetrics() *FormatterMetrics

	// X is the formatter-assigned position; XShift a post-format nudge.
	X() float64
	SetX(x float64)
	XShift() float64
	SetXShift(shift float64)

	Voice() *Voice
	SetVoice(v *Voice)
	Stave() *Stave
	SetStave(s *Stave)

	TickContext() *TickContext
	SetTickContext(tc *TickContext)
	AddToModifierContext(mc *ModifierContext)

	Modifiers() []Modifier
}

// TickableBase carries the state shared by all tickable implementations.
// Concrete types embed it and override the formatting hooks they care about.
type TickableBase struct {
	ticks       fraction.Fraction
	width       float64
	x           float64
	xShift      float64
	centerShift float64

	voice       *Voice
	stave       *Stave
	tickContext *TickContext
	modifierCtx *ModifierContext
	modifiers   []Modifier

	ignoreTicks   bool
	centerAligned bool
	preFormatted  bool

	fmtMetrics FormatterMetrics
}

// NewTickableBase returns a base with the given duration.
func NewTickableBase(ticks fraction.Fraction) TickableBase {
	return TickableBase{ticks: ticks}
}

func (t *TickableBase) Ticks() fraction.Fraction { return t.ticks }

// SetTicks replaces the duration. Tuplet application rescales ticks after
// construction.
func (t *TickableBase) SetTicks(ticks fraction.Fraction) { t.ticks = ticks }

func (t *TickableBase) ShouldIgnoreTicks() bool   { return t.ignoreTicks }
func (t *TickableBase) SetIgnoreTicks(ign bool)   { t.ignoreTicks = ign }
func (t *TickableBase) IsRest() bool              { return false }
func (t *TickableBase) CenterAligned() bool       { return t.centerAligned }
func (t *TickableBase) SetCenterAligned(c bool)   { t.centerAligned = c }
func (t *TickableBase) SetCenterXShift(s float64) { t.centerShift = s }
func (t *TickableBase) CenterXShift() float64     { return t.centerShift }

func (t *TickableBase) PreFormat()  { t.preFormatted = true }
func (t *TickableBase) PostFormat() {}

func (t *TickableBase) Width() float64 { return t.width }

// SetWidth sets the intrinsic width. Implementations call this from their
// PreFormat.
func (t *TickableBase) SetWidth(w float64) { t.width = w }

func (t *TickableBase) Metrics() Metrics {
	return Metrics{Width: t.width, NotePx: t.width}
}

func (t *TickableBase) FormatterMetrics() *FormatterMetrics { return &t.fmtMetrics }

func (t *TickableBase) X() float64                { return t.x }
func (t *TickableBase) SetX(x float64)            { t.x = x }
func (t *TickableBase) XShift() float64           { return t.xShift }
func (t *TickableBase) SetXShift(s float64)       { t.xShift = s }
func (t *TickableBase) Voice() *Voice             { return t.voice }
func (t *TickableBase) SetVoice(v *Voice)         { t.voice = v }
func (t *TickableBase) Stave() *Stave             { return t.stave }
func (t *TickableBase) SetStave(s *Stave)         { t.stave = s }
func (t *TickableBase) TickContext() *TickContext { return t.tickContext }

func (t *TickableBase) SetTickContext(tc *TickContext) {
	t.tickContext = tc
	t.preFormatted = false
}

// AddToModifierContext registers the tickable and its modifiers with mc.
func (t *TickableBase) AddToModifierContext(mc *ModifierContext) {
	t.modifierCtx = mc
	for _, m := range t.modifiers {
		mc.AddMember(m)
	}
	t.preFormatted = false
}

// ModifierContext returns the context the tickable was last joined into,
// or nil before JoinVoices.
func (t *TickableBase) ModifierContext() *ModifierContext { return t.modifierCtx }

func (t *TickableBase) Modifiers() []Modifier { return t.modifiers }

func (t *TickableBase) addModifier(m Modifier) { t.modifiers = append(t.modifiers, m) }

func (t *TickableBase) removeModifier(target Modifier) {
	kept := t.modifiers[:0]
	for _, m := range t.modifiers {
		if m != target {
			kept = append(kept, m)
		}
	}
	t.modifiers = kept
}
