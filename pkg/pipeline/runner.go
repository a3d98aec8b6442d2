package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stavekit/stavekit/pkg/cache"
	"github.com/stavekit/stavekit/pkg/errors"
	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/observability"
	"github.com/stavekit/stavekit/pkg/score"
	"github.com/stavekit/stavekit/pkg/scorefile"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the decoded score file.
	Document *scorefile.Document

	// ScoreHash is the content hash of the score document.
	ScoreHash string

	// Voices are the compiled, formatted voices.
	Voices []*score.Voice

	// Stave is the stave the layout was fitted to.
	Stave *score.Stave

	// Layout is the serializable layout data.
	Layout Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VoiceCount int
	NoteCount  int
	LoadTime   time.Duration
	FormatTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → format → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Path)
	doc, raw, err := r.Load(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.Path, voiceCount(doc), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.ScoreHash = cache.Hash(raw)

	voices, err := doc.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	result.Voices = voices
	result.Stats.VoiceCount = len(voices)
	for _, v := range voices {
		result.Stats.NoteCount += len(v.Tickables())
	}

	r.Logger.Info("loaded score",
		"title", doc.Score.Title,
		"voices", result.Stats.VoiceCount,
		"notes", result.Stats.NoteCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Format
	formatStart := time.Now()
	observability.Pipeline().OnFormatStart(ctx, len(voices), opts.ResolveWidth(doc))
	f, stave, layout, layoutHit, err := r.FormatWithCacheInfo(ctx, result.ScoreHash, doc, voices, opts)
	result.Stats.FormatTime = time.Since(formatStart)
	observability.Pipeline().OnFormatComplete(ctx, layout.Cost, result.Stats.FormatTime, err)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	result.Stave = stave
	result.Layout = layout
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("formatted layout",
		"contexts", len(layout.Contexts),
		"cost", layout.Cost,
		"cached", layoutHit,
		"duration", result.Stats.FormatTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, f, stave, voices, layout, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and decodes the score document, returning the raw bytes for
// content hashing.
func (r *Runner) Load(opts Options) (*scorefile.Document, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}

	raw := []byte(opts.Score)
	if opts.Path != "" {
		if err := errors.ValidatePath(opts.Path); err != nil {
			return nil, nil, err
		}
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "score file %s", opts.Path)
			}
			return nil, nil, fmt.Errorf("read %s: %w", opts.Path, err)
		}
		raw = data
	}

	doc, err := scorefile.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return doc, raw, nil
}

// FormatWithCacheInfo runs the format stage with layout caching and
// returns cache hit info. On a cache hit the stored positions are
// replayed onto fresh tick contexts instead of re-running justification.
func (r *Runner) FormatWithCacheInfo(ctx context.Context, scoreHash string, doc *scorefile.Document, voices []*score.Voice, opts Options) (*format.Formatter, *score.Stave, Layout, bool, error) {
	opts.SetFormatDefaults()
	r.applyLogger(&opts)

	width := opts.ResolveWidth(doc)
	stave := BuildStave(doc, width)
	f := format.New(formatterOptions(doc, opts)...)
	if err := f.JoinVoices(voices); err != nil {
		return nil, nil, Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(scoreHash, opts.LayoutKeyOpts(width))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "layout")
			if cached, err := UnmarshalLayout(data); err == nil {
				if err := f.CreateTickContexts(voices); err == nil && ApplyLayout(f.TickContexts(), cached) {
					// Rest lines are not part of the serialized layout,
					// so a replayed hit redoes the alignment pass.
					for _, v := range voices {
						format.AlignRestsToNotes(v.Tickables(), opts.AlignRests, false)
					}
					return f, stave, cached, true, nil
				}
			}
			// If replay fails, fall through to recompute
		} else {
			observability.Cache().OnCacheMiss(ctx, "layout")
		}
	}

	if err := f.FormatToStave(voices, stave, format.FormatParams{AlignRests: opts.AlignRests}); err != nil {
		return nil, nil, Layout{}, false, err
	}
	for i := 0; i < opts.TuneSteps; i++ {
		cost, err := f.Tune(opts.TuneAlpha)
		if err != nil {
			return nil, nil, Layout{}, false, fmt.Errorf("tune step %d: %w", i+1, err)
		}
		observability.Pipeline().OnTuneStep(ctx, i+1, cost)
	}

	layout := ExportLayout(f, width)

	// Cache the result
	if data, err := MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return f, stave, layout, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *format.Formatter, stave *score.Stave, voices []*score.Voice, layout Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, kind := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(kind, layout.Width))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[kind] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(f, stave, voices, layout, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for kind, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(kind, layout.Width))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// BuildStave creates the stave a document's voices are fitted to,
// reserving room for the clef, key signature, and time signature.
func BuildStave(doc *scorefile.Document, width float64) *score.Stave {
	stave := score.NewStave(staveMarginX, staveMarginY, width).AddClef().AddTimeSignature()
	key := doc.Score.Key
	if key == "" {
		key = "C"
	}
	if n, err := score.NumAccidentals(key); err == nil {
		if n < 0 {
			n = -n
		}
		if n > 0 {
			stave.AddKeySignature(n)
		}
	}
	return stave
}

const (
	staveMarginX = 10.0
	staveMarginY = 60.0
)

// formatterOptions merges the document's engraving overrides with the
// pipeline options. Explicit options win over the document.
func formatterOptions(doc *scorefile.Document, opts Options) []format.Option {
	softmax := opts.SoftmaxFactor
	maxIter := opts.MaxIterations
	global := opts.GlobalSoftmax
	if eng := doc.Engraving; eng != nil {
		if softmax == 0 {
			softmax = eng.SoftmaxFactor
		}
		if maxIter == 0 {
			maxIter = eng.MaxIterations
		}
		global = global || eng.GlobalSoftmax
	}

	var fopts []format.Option
	if softmax > 0 {
		fopts = append(fopts, format.WithSoftmaxFactor(softmax))
	}
	if maxIter > 0 {
		fopts = append(fopts, format.WithMaxIterations(maxIter))
	}
	if global {
		fopts = append(fopts, format.WithGlobalSoftmax())
	}
	return fopts
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func voiceCount(doc *scorefile.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Voices)
}
