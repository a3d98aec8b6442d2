// Package pkg provides the core libraries for Stavekit music engraving.
//
// # Overview
//
// Stavekit lays out musical voices on a stave with proportional spacing
// and renders the result to vector or raster output. The pkg directory
// is organized into three main areas:
//
//  1. Domain logic (score model, duration math, glyph outlines, formatting)
//  2. Rendering (SVG, PNG, spacing diagnostics)
//  3. Infrastructure (score files, caching, pipeline orchestration)
//
// # Architecture
//
// The typical data flow through Stavekit:
//
//	TOML score file
//	         ↓
//	    [scorefile] package (decode + compile)
//	         ↓
//	    [score] package (voices, notes, tick contexts)
//	         ↓
//	    [format] package (proportional spacing + justification)
//	         ↓
//	    [render] package (stave and note drawing)
//	         ↓
//	    SVG/PNG/JSON/DOT output
//
// # Quick Start
//
// Format a voice and render it to SVG:
//
//	import (
//	    "github.com/stavekit/stavekit/pkg/format"
//	    "github.com/stavekit/stavekit/pkg/render"
//	    "github.com/stavekit/stavekit/pkg/render/svg"
//	    "github.com/stavekit/stavekit/pkg/score"
//	)
//
//	// 1. Build a voice
//	voice := score.NewVoice(score.CommonTime)
//	note, _ := score.NewNote([]string{"c/4"}, "q", 0)
//	_ = voice.AddTickable(note)
//
//	// 2. Format against a stave
//	stave := score.NewStave(10, 40, 500).AddClef().AddTimeSignature()
//	f := format.New()
//	_ = f.JoinVoices([]*score.Voice{voice})
//	_ = f.FormatToStave([]*score.Voice{voice}, stave, format.FormatParams{})
//
//	// 3. Render to SVG
//	surface := svg.New(svg.WithSize(520, 200))
//	render.DrawScore(surface, stave, []*score.Voice{voice})
//	out := surface.Bytes()
//
// # Main Packages
//
// ## Domain Logic
//
// [score] - The score model: notes, rests, voices, staves, tick contexts,
// accidentals, and key signatures. Tickables carry durations as exact
// fractions and are grouped into per-tick contexts for alignment.
//
// [fraction] - Exact rational arithmetic for tick durations. Formatting
// never touches floating point for time, so alignment is deterministic.
//
// [glyph] - Notation glyph outlines and metrics used by the renderers.
//
// [format] - Proportional spacing and justification. Computes ideal
// gaps from duration ratios, distributes slack by a softmax weighting,
// and iteratively tunes the layout to reduce spacing cost.
//
// ## Rendering
//
// [render] - Surface abstraction and drawing routines for staves,
// notes, beams, and accidentals.
//
//   - [render/svg]: vector output as standalone SVG documents
//   - [render/raster]: PNG output over a fogleman/gg drawing context
//   - [render/spacing]: spacing diagnostics as Graphviz DOT, SVG, or PNG
//
// [fonts] - The bundled text face shared by the renderers.
//
// ## Infrastructure
//
// [scorefile] - TOML score documents: decoding, validation, and
// compilation into voices.
//
// [pipeline] - Complete engraving pipeline (load → format → render)
// used by the CLI. Ensures consistent behavior across entry points and
// layers content-addressed caching over the format and render stages.
//
// [cache] - Cache interface and keying with file-backed and null
// implementations. Layout keys hash the score content and formatting
// options; artifact keys hash the layout and render options.
//
// [errors] - Error codes and wrapping helpers shared across packages.
//
// [observability] - Hook points for instrumenting pipeline stages and
// cache traffic.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/format/...       # Specific package
//	go test -run Example           # Examples only
//
// [score]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/score
// [fraction]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/fraction
// [glyph]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/glyph
// [format]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/format
// [render]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/render/raster
// [render/spacing]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/render/spacing
// [fonts]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/fonts
// [scorefile]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/scorefile
// [pipeline]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/cache
// [errors]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/stavekit/stavekit/pkg/buildinfo
package pkg
