// Package pipeline provides the core engraving pipeline for Stavekit.
//
// This package implements the complete load → format → render pipeline that
// can be used by CLI and library consumers. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a score document, then compile its voices
//  2. Format: Run the layout engine to position every note horizontally
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "etude.toml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/stavekit/stavekit/pkg/cache"
	"github.com/stavekit/stavekit/pkg/scorefile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Consumers
// =============================================================================

const (
	// DefaultWidth is the default stave width in pixels, used when neither
	// the options nor the score document declare one.
	DefaultWidth = 600.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 220.0

	// DefaultScale is the default raster supersampling factor.
	DefaultScale = 2.0

	// DefaultTuneAlpha is the default damping factor for tuning passes.
	DefaultTuneAlpha = 0.5
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the engraving pipeline.
// This struct supports JSON serialization for programmatic use.
type Options struct {
	// Load options
	Path    string `json:"path,omitempty"`
	Score   string `json:"score,omitempty"` // inline TOML, alternative to Path
	Refresh bool   `json:"refresh,omitempty"`

	// Format options
	Width         float64 `json:"width,omitempty"` // overrides the document's width
	SoftmaxFactor float64 `json:"softmax_factor,omitempty"`
	GlobalSoftmax bool    `json:"global_softmax,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
	AlignRests    bool    `json:"align_rests,omitempty"`
	TuneSteps     int     `json:"tune_steps,omitempty"`
	TuneAlpha     float64 `json:"tune_alpha,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // verbose labels in DOT output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetFormatDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && o.Score == "" {
		return fmt.Errorf("path or score is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetFormatDefaults sets default values for layout computation.
func (o *Options) SetFormatDefaults() {
	if o.TuneSteps > 0 && o.TuneAlpha == 0 {
		o.TuneAlpha = DefaultTuneAlpha
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ResolveWidth returns the effective stave width: an explicit option wins,
// then the document's declared width, then the package default.
func (o *Options) ResolveWidth(doc *scorefile.Document) float64 {
	if o.Width > 0 {
		return o.Width
	}
	if doc != nil && doc.Score.Width > 0 {
		return doc.Score.Width
	}
	return DefaultWidth
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(width float64) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:         width,
		SoftmaxFactor: o.SoftmaxFactor,
		GlobalSoftmax: o.GlobalSoftmax,
		MaxIterations: o.MaxIterations,
		TuneSteps:     o.TuneSteps,
		TuneAlpha:     o.TuneAlpha,
		AlignRests:    o.AlignRests,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string, width float64) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      width,
		Height:     o.Height,
		Scale:      o.Scale,
		AlignRests: o.AlignRests,
	}
}
