package format

import (
	"math"
	"sort"

	"github.com/stavekit/stavekit/pkg/errors"
	"github.com/stavekit/stavekit/pkg/fraction"
	"github.com/stavekit/stavekit/pkg/glyph"
	"github.com/stavekit/stavekit/pkg/score"
)

// maxJustifyIterations bounds the width-correction loop in PreFormat.
const maxJustifyIterations = 5

// Option configures a Formatter.
type Option func(*Formatter)

// WithSoftmaxFactor sets the spacing weight base applied to every voice
// when Format runs. Zero leaves each voice's own factor in place.
func WithSoftmaxFactor(factor float64) Option {
	return func(f *Formatter) { f.softmaxFactor = factor }
}

// WithGlobalSoftmax computes spacing weights over the combined duration
// pool of all voices instead of per voice.
func WithGlobalSoftmax() Option {
	return func(f *Formatter) { f.globalSoftmax = true }
}

// WithMaxIterations overrides the justification correction iteration cap.
func WithMaxIterations(n int) Option {
	return func(f *Formatter) { f.maxIterations = n }
}

// WithEngraving overrides the engraving constants.
func WithEngraving(eng glyph.Engraving) Option {
	return func(f *Formatter) { f.eng = eng }
}

// Gap is the empty horizontal interval between two adjacent tick
// contexts after formatting.
type Gap struct {
	X1, X2 float64
}

// tickContexts is the ordered tick-position index built from a set of
// voices: one context per distinct tick offset, at a resolution where
// every offset is an integer.
type tickContexts struct {
	list                 []int64
	byTick               map[int64]*score.TickContext
	array                []*score.TickContext
	resolutionMultiplier int64
}

// Formatter lays out the tickables of joined voices. A zero Formatter is
// not usable; construct with New.
type Formatter struct {
	softmaxFactor float64
	globalSoftmax bool
	maxIterations int
	eng           glyph.Engraving

	voices           []*score.Voice
	tickContexts     *tickContexts
	modifierContexts []*score.ModifierContext

	hasMinTotalWidth bool
	minTotalWidth    float64
	justifyWidth     float64

	totalCost   float64
	totalShift  float64
	lossHistory []float64

	gapsTotal float64
	gaps      []Gap

	durationStats map[string]*durationStat
}

type durationStat struct {
	mean  float64
	count int
}

// New returns a formatter with stock engraving constants.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		maxIterations: maxJustifyIterations,
		eng:           glyph.DefaultEngraving(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatParams selects the optional phases of Format.
type FormatParams struct {
	// AlignRests moves every movable rest onto the line of its
	// neighboring notes. Beamed rests are aligned regardless.
	AlignRests bool

	// Stave, when set, assigns all voices to it and runs post-formatting.
	Stave *score.Stave
}

// ResolutionMultiplier returns the smallest factor that expresses every
// voice's tick offsets as integers. Voices must agree on total ticks and
// be complete.
func ResolutionMultiplier(voices []*score.Voice) (int64, error) {
	if len(voices) == 0 {
		return 0, errors.New(errors.ErrCodeNoVoices, "no voices to format")
	}
	total := voices[0].TotalTicks()
	multiplier := int64(1)
	for _, v := range voices {
		if !v.TotalTicks().Equals(total) {
			return 0, errors.New(errors.ErrCodeTickMismatch, "voices have mismatched total ticks")
		}
		if !v.IsComplete() {
			return 0, errors.New(errors.ErrCodeIncompleteVoice, "voice does not fill %s", v.Time())
		}
		multiplier = fraction.LCM(multiplier, v.ResolutionMultiplier())
	}
	return multiplier, nil
}

// CreateTickContexts partitions the voices' tickables by tick offset,
// building one context per distinct offset. Every tickable lands in
// exactly one context.
func (f *Formatter) CreateTickContexts(voices []*score.Voice) error {
	multiplier, err := ResolutionMultiplier(voices)
	if err != nil {
		return err
	}
	contexts := &tickContexts{
		byTick:               make(map[int64]*score.TickContext),
		resolutionMultiplier: multiplier,
	}
	for voiceIndex, voice := range voices {
		ticksUsed := fraction.New(0, multiplier)
		for _, t := range voice.Tickables() {
			tick := ticksUsed.Numerator
			ctx, ok := contexts.byTick[tick]
			if !ok {
				ctx = score.NewTickContext(tick)
				contexts.byTick[tick] = ctx
				contexts.list = append(contexts.list, tick)
			}
			ctx.AddTickable(t, voiceIndex)
			if !t.ShouldIgnoreTicks() {
				ticksUsed = ticksUsed.Add(t.Ticks())
			}
		}
	}
	sort.Slice(contexts.list, func(i, j int) bool { return contexts.list[i] < contexts.list[j] })
	contexts.array = make([]*score.TickContext, len(contexts.list))
	for i, tick := range contexts.list {
		contexts.array[i] = contexts.byTick[tick]
	}
	for _, ctx := range contexts.array {
		ctx.SetContexts(contexts.array)
	}
	f.tickContexts = contexts
	return nil
}

// TickContexts returns the ordered contexts built by CreateTickContexts.
func (f *Formatter) TickContexts() []*score.TickContext {
	if f.tickContexts == nil {
		return nil
	}
	return f.tickContexts.array
}

// JoinVoices groups the voices' modifiers into shared contexts, one per
// stave and tick offset, so accidentals and dots across voices pack
// together. Call once per stave before Format.
func (f *Formatter) JoinVoices(voices []*score.Voice) error {
	if err := f.createModifierContexts(voices); err != nil {
		return err
	}
	f.hasMinTotalWidth = false
	return nil
}

func (f *Formatter) createModifierContexts(voices []*score.Voice) error {
	if len(voices) == 0 {
		return errors.New(errors.ErrCodeNoVoices, "no voices to join")
	}
	multiplier, err := ResolutionMultiplier(voices)
	if err != nil {
		return err
	}
	type staveContexts map[int64]*score.ModifierContext
	byStave := make(map[*score.Stave]staveContexts)
	for _, voice := range voices {
		ticksUsed := fraction.New(0, multiplier)
		for _, t := range voice.Tickables() {
			tick := ticksUsed.Numerator
			stave := t.Stave()
			contexts, ok := byStave[stave]
			if !ok {
				contexts = make(staveContexts)
				byStave[stave] = contexts
			}
			mc, ok := contexts[tick]
			if !ok {
				mc = score.NewModifierContext()
				mc.SetEngraving(f.eng)
				contexts[tick] = mc
				f.modifierContexts = append(f.modifierContexts, mc)
			}
			t.AddToModifierContext(mc)
			if !t.ShouldIgnoreTicks() {
				ticksUsed = ticksUsed.Add(t.Ticks())
			}
		}
	}
	return nil
}

// Format joins, lays out, and justifies the voices to justifyWidth.
// A justifyWidth of zero lays contexts out at their minimum widths.
func (f *Formatter) Format(voices []*score.Voice, justifyWidth float64, params FormatParams) error {
	f.voices = voices
	if f.softmaxFactor > 0 {
		for _, v := range voices {
			v.SetSoftmaxFactor(f.softmaxFactor)
		}
	}
	f.alignRests(voices, params.AlignRests)
	if err := f.CreateTickContexts(voices); err != nil {
		return err
	}
	if err := f.PreFormat(justifyWidth, voices, params.Stave); err != nil {
		return err
	}
	if params.Stave != nil {
		f.PostFormat()
	}
	return nil
}

// FormatToStave justifies the voices into the stave's note area and
// assigns them to it.
func (f *Formatter) FormatToStave(voices []*score.Voice, stave *score.Stave, params FormatParams) error {
	justifyWidth := stave.NoteEndX() - stave.NoteStartX() - DefaultStavePadding(f.eng)
	params.Stave = stave
	return f.Format(voices, justifyWidth, params)
}

// DefaultStavePadding is the breathing room reserved at the bar line when
// fitting a justified voice to a stave.
func DefaultStavePadding(eng glyph.Engraving) float64 {
	return score.DefaultStavePadding(eng)
}

// PreCalculateMinTotalWidth estimates the width the voices need before
// layout runs, including a padding estimate for uneven content: the
// largest of per-unaligned-context padding and the width and duration
// variability of the tickables.
func (f *Formatter) PreCalculateMinTotalWidth(voices []*score.Voice) (float64, error) {
	if f.hasMinTotalWidth {
		return f.minTotalWidth, nil
	}
	if f.tickContexts == nil {
		if err := f.CreateTickContexts(voices); err != nil {
			return 0, err
		}
	}

	f.minTotalWidth = 0
	unalignedContexts := 0
	var widths, durations []float64
	var widthSum, durationSum float64
	for _, ctx := range f.tickContexts.array {
		ctx.PreFormat()
		f.minTotalWidth += ctx.Width()
		members := ctx.Tickables()
		if len(members) < len(voices) {
			unalignedContexts++
		}
		for _, t := range members {
			w := t.Metrics().Width
			widths = append(widths, w)
			widthSum += w
			d := t.Ticks().Value()
			durations = append(durations, d)
			durationSum += d
		}
	}
	f.hasMinTotalWidth = true
	if len(widths) == 0 {
		return f.minTotalWidth, nil
	}

	// Spread estimate: relative standard deviation of widths and of
	// durations, whichever is larger, scaled by the context count.
	widthSpread := relativeStddev(widths, widthSum)
	durationSpread := relativeStddev(durations, durationSum)
	spreadPadding := math.Max(widthSpread, durationSpread) * float64(len(f.tickContexts.array))
	unalignedPadding := float64(unalignedContexts) * f.eng.UnalignedNotePadding
	f.minTotalWidth += math.Max(unalignedPadding, spreadPadding)
	return f.minTotalWidth, nil
}

func relativeStddev(values []float64, sum float64) float64 {
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance/float64(len(values))) / mean
}

// MinTotalWidth returns the minimum width computed by a prior PreFormat
// or PreCalculateMinTotalWidth pass.
func (f *Formatter) MinTotalWidth() (float64, error) {
	if !f.hasMinTotalWidth {
		return 0, errors.New(errors.ErrCodeNoMinWidth, "minimum width not computed; run PreFormat or PreCalculateMinTotalWidth first")
	}
	return f.minTotalWidth, nil
}

// PreFormat lays the tick contexts out at their minimum widths, then, if
// justifyWidth is positive, stretches the layout to fill it with
// duration-proportional spacing. The correction loop repeats while the
// realized width overshoots the padded target, or, after the first pass,
// while it undershoots by more than the padding band.
func (f *Formatter) PreFormat(justifyWidth float64, voices []*score.Voice, stave *score.Stave) error {
	if f.tickContexts == nil {
		return errors.New(errors.ErrCodeNoContexts, "no tick contexts; run CreateTickContexts first")
	}
	contexts := f.tickContexts
	if stave != nil {
		for _, v := range voices {
			v.SetStave(stave)
		}
	}

	// Pass 1: minimum-width layout. Each context starts where the
	// previous one's width ends.
	x := 0.0
	shift := 0.0
	f.minTotalWidth = 0
	totalTicks := fraction.New(0, 1)
	for _, ctx := range contexts.array {
		ctx.PreFormat()
		width := ctx.Width()
		f.minTotalWidth += width
		maxTicks, _ := ctx.MaxTicks()
		totalTicks = totalTicks.Add(maxTicks)
		x = x + shift + ctx.TotalLeftPx()
		ctx.SetX(x)
		shift = width - ctx.TotalLeftPx()
	}
	f.hasMinTotalWidth = true
	f.justifyWidth = justifyWidth
	if justifyWidth <= 0 {
		_, err := f.Evaluate()
		return err
	}
	if len(contexts.array) == 1 {
		_, err := f.Evaluate()
		return err
	}

	var expTicksUsed float64
	if f.globalSoftmax {
		total := totalTicks.Value()
		factor := f.softmaxFactor
		if factor <= 0 {
			factor = score.DefaultSoftmaxFactor
		}
		for _, ctx := range contexts.array {
			maxTicks, _ := ctx.MaxTicks()
			expTicksUsed += math.Pow(factor, maxTicks.Value()/total)
		}
	}

	first := contexts.array[0]
	last := contexts.array[len(contexts.array)-1]
	adjustedJustifyWidth := justifyWidth - last.Metrics().NotePx - last.TotalRightPx() - first.TotalLeftPx()

	endPaddingMin, endPaddingMax := f.eng.EndPaddingMin, f.eng.EndPaddingMax
	for _, v := range voices {
		if v.TicksUsed().GreaterThan(v.TotalTicks()) {
			// An overfull voice needs extra room at the bar line.
			endPaddingMin *= 2
			endPaddingMax *= 2
			break
		}
	}
	maxAllowedWidth := adjustedJustifyWidth - endPaddingMin

	targetWidth := adjustedJustifyWidth
	actualWidth := f.shiftToIdealDistances(f.calculateIdealDistances(targetWidth, totalTicks, expTicksUsed), adjustedJustifyWidth)
	iterations := f.maxIterations
	for (actualWidth > maxAllowedWidth && iterations > 0) ||
		(actualWidth+endPaddingMax < maxAllowedWidth && iterations > 1) {
		targetWidth -= actualWidth - maxAllowedWidth
		actualWidth = f.shiftToIdealDistances(f.calculateIdealDistances(targetWidth, totalTicks, expTicksUsed), adjustedJustifyWidth)
		iterations--
	}

	_, err := f.Evaluate()
	return err
}

// idealDistance is the target spacing between a tickable and the nearest
// earlier tickable of the same voice.
type idealDistance struct {
	expectedDistance   float64
	maxNegativeShiftPx float64
	fromTickable       score.Tickable
}

// calculateIdealDistances computes, for every context after the first,
// how far it should sit from its same-voice predecessor under
// duration-proportional spacing, and how far left it may move before
// colliding.
func (f *Formatter) calculateIdealDistances(targetWidth float64, totalTicks fraction.Fraction, expTicksUsed float64) []idealDistance {
	contexts := f.tickContexts.array
	distances := make([]idealDistance, len(contexts))
	for i, ctx := range contexts {
		if i == 0 {
			continue
		}
		byVoice := ctx.TickablesByVoice()
		prev := contexts[i-1]
		for j := i - 1; j >= 0; j-- {
			back := contexts[j]
			backByVoice := back.TickablesByVoice()

			var shared []int
			for voiceIndex := range byVoice {
				if _, ok := backByVoice[voiceIndex]; ok {
					shared = append(shared, voiceIndex)
				}
			}
			if len(shared) == 0 {
				continue
			}

			maxTicks := 0.0
			var backTickable score.Tickable
			maxNegativeShift := math.Inf(1)
			for _, voiceIndex := range shared {
				backT := backByVoice[voiceIndex]
				if t := backT.Ticks().Value(); backTickable == nil || t > maxTicks {
					maxTicks = t
					backTickable = backT
				}
				thisT := byVoice[voiceIndex]
				tm := thisT.Metrics()
				bm := backT.Metrics()
				insideLeftEdge := thisT.X() - (tm.ModLeftPx + tm.LeftDisplacedHeadPx)
				insideRightEdge := backT.X() + bm.NotePx + bm.ModRightPx + bm.RightDisplacedHeadPx
				maxNegativeShift = math.Min(maxNegativeShift, insideLeftEdge-insideRightEdge)
			}
			// Never let a context cross its immediate predecessor.
			maxNegativeShift = math.Min(maxNegativeShift, ctx.X()-prev.X())

			var expected float64
			if f.globalSoftmax {
				factor := f.softmaxFactor
				if factor <= 0 {
					factor = score.DefaultSoftmaxFactor
				}
				expected = math.Pow(factor, maxTicks/totalTicks.Value()) / expTicksUsed * targetWidth
			} else if backTickable != nil {
				expected = backTickable.Voice().Softmax(maxTicks) * targetWidth
			}
			distances[i] = idealDistance{
				expectedDistance:   expected,
				maxNegativeShiftPx: maxNegativeShift,
				fromTickable:       backTickable,
			}
			break
		}
	}
	return distances
}

// shiftToIdealDistances moves every context toward its ideal distance,
// accumulating positive corrections and bounding negative ones by the
// collision limit. Returns the realized span from first to last context.
func (f *Formatter) shiftToIdealDistances(distances []idealDistance, adjustedJustifyWidth float64) float64 {
	contexts := f.tickContexts.array
	spaceAccum := 0.0
	centerX := adjustedJustifyWidth / 2
	for i, ctx := range contexts {
		if i > 0 {
			contextX := ctx.X()
			ideal := distances[i]
			from := 0.0
			if ideal.fromTickable != nil {
				from = ideal.fromTickable.X()
			}
			errorPx := from + ideal.expectedDistance - (contextX + spaceAccum)
			if errorPx > 0 {
				spaceAccum += errorPx
			} else if errorPx < 0 {
				spaceAccum -= math.Min(ideal.maxNegativeShiftPx, -errorPx)
			}
			ctx.SetX(contextX + spaceAccum)
		}
		for _, t := range ctx.CenterAlignedTickables() {
			t.SetCenterXShift(centerX - ctx.X())
		}
	}
	return contexts[len(contexts)-1].X() - contexts[0].X()
}

// PostFormat runs every modifier and tick context's post-format hooks.
func (f *Formatter) PostFormat() {
	for _, mc := range f.modifierContexts {
		mc.PostFormat()
	}
	if f.tickContexts != nil {
		for _, ctx := range f.tickContexts.array {
			ctx.PostFormat()
		}
	}
}

// Evaluate scores the current layout: the square root of the summed
// squared deviation of each tickable's realized spacing from the mean
// spacing of its duration class. It also records inter-context gaps and
// each context's freedom of movement.
func (f *Formatter) Evaluate() (float64, error) {
	if f.tickContexts == nil {
		return 0, errors.New(errors.ErrCodeNoContexts, "no tick contexts; run CreateTickContexts first")
	}
	contexts := f.tickContexts.array
	justifyWidth := f.justifyWidth

	f.gapsTotal = 0
	f.gaps = f.gaps[:0]
	for i := 1; i < len(contexts); i++ {
		prev, cur := contexts[i-1], contexts[i]
		insideRightEdge := prev.X() + prev.Metrics().NotePx + prev.TotalRightPx()
		insideLeftEdge := cur.X() - cur.TotalLeftPx()
		gap := insideLeftEdge - insideRightEdge
		f.gapsTotal += gap
		f.gaps = append(f.gaps, Gap{X1: insideRightEdge, X2: insideLeftEdge})
		cur.FormatterMetrics().Freedom.Left = gap
		prev.FormatterMetrics().Freedom.Right = gap
	}

	f.durationStats = make(map[string]*durationStat)
	for _, voice := range f.voices {
		notes := voice.Tickables()
		for i, note := range notes {
			fm := note.FormatterMetrics()
			if i < len(notes)-1 {
				fm.Space.Used = notes[i+1].X() - note.X()
			} else {
				fm.Space.Used = justifyWidth - note.X()
			}
			f.updateDurationStat(note.Ticks().Simplify().String(), fm.Space.Used)
		}
	}

	totalDeviation := 0.0
	for _, voice := range f.voices {
		for _, note := range voice.Tickables() {
			duration := note.Ticks().Simplify().String()
			fm := note.FormatterMetrics()
			fm.Duration = duration
			fm.Iterations++
			fm.Space.Mean = f.durationStats[duration].mean
			fm.Space.Deviation = fm.Space.Used - fm.Space.Mean
			totalDeviation += fm.Space.Deviation * fm.Space.Deviation
		}
	}
	f.totalCost = math.Sqrt(totalDeviation)
	f.lossHistory = append(f.lossHistory, f.totalCost)
	return f.totalCost, nil
}

func (f *Formatter) updateDurationStat(duration string, space float64) {
	stat, ok := f.durationStats[duration]
	if !ok {
		f.durationStats[duration] = &durationStat{mean: space, count: 1}
		return
	}
	stat.count++
	stat.mean = (stat.mean*float64(stat.count-1) + space) / float64(stat.count)
}

// Tune performs one damped relaxation pass: each context moves toward
// reducing its members' spacing deviations, bounded by the freedom
// recorded in the last Evaluate and scaled by alpha. Returns the
// re-evaluated cost.
func (f *Formatter) Tune(alpha float64) (float64, error) {
	if f.tickContexts == nil {
		return 0, errors.New(errors.ErrCodeNoContexts, "no tick contexts; run CreateTickContexts first")
	}
	contexts := f.tickContexts.array

	move := func(ctx *score.TickContext, shift float64, prev, next *score.TickContext) {
		ctx.SetX(ctx.X() + shift)
		ctx.FormatterMetrics().Freedom.Left += shift
		ctx.FormatterMetrics().Freedom.Right -= shift
		if prev != nil {
			prev.FormatterMetrics().Freedom.Right += shift
		}
		if next != nil {
			next.FormatterMetrics().Freedom.Left -= shift
		}
	}

	shift := 0.0
	f.totalShift = 0
	for i, ctx := range contexts {
		var prev, next *score.TickContext
		if i > 0 {
			prev = contexts[i-1]
		}
		if i < len(contexts)-1 {
			next = contexts[i+1]
		}
		move(ctx, shift, prev, next)

		cost := 0.0
		for _, t := range ctx.Tickables() {
			cost -= t.FormatterMetrics().Space.Deviation
		}
		switch {
		case cost > 0:
			shift = -math.Min(ctx.FormatterMetrics().Freedom.Right, math.Abs(cost))
		case cost < 0:
			if next != nil {
				shift = math.Min(next.FormatterMetrics().Freedom.Right, math.Abs(cost))
			} else {
				shift = 0
			}
		default:
			shift = 0
		}
		shift *= alpha
		f.totalShift += shift
	}
	return f.Evaluate()
}

// TotalCost returns the cost recorded by the last Evaluate.
func (f *Formatter) TotalCost() float64 { return f.totalCost }

// LossHistory returns the cost of every Evaluate pass in order.
func (f *Formatter) LossHistory() []float64 { return f.lossHistory }

// ContextGaps returns the inter-context gaps recorded by the last
// Evaluate, and their total.
func (f *Formatter) ContextGaps() ([]Gap, float64) { return f.gaps, f.gapsTotal }

// ResolutionMultiplier returns the common tick resolution of the last
// CreateTickContexts, or zero before it runs.
func (f *Formatter) ResolutionMultiplier() int64 {
	if f.tickContexts == nil {
		return 0
	}
	return f.tickContexts.resolutionMultiplier
}

func (f *Formatter) alignRests(voices []*score.Voice, alignAllNotes bool) {
	for _, voice := range voices {
		AlignRestsToNotes(voice.Tickables(), alignAllNotes, false)
	}
}

// SimpleFormat positions tickables sequentially from x, each in its own
// context, separated by paddingBetween. Useful for content that needs no
// justification, such as grace note runs.
func SimpleFormat(tickables []score.Tickable, x float64, paddingBetween float64) {
	acc := x
	for _, t := range tickables {
		t.AddToModifierContext(score.NewModifierContext())
		ctx := score.NewTickContext(0)
		ctx.AddTickable(t, 0)
		ctx.PreFormat()
		ctx.SetX(acc + ctx.TotalLeftPx())
		acc += ctx.Width() + paddingBetween
	}
}
