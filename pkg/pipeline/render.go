package pipeline

import (
	"bytes"
	"fmt"

	"github.com/stavekit/stavekit/pkg/format"
	"github.com/stavekit/stavekit/pkg/render"
	"github.com/stavekit/stavekit/pkg/render/raster"
	"github.com/stavekit/stavekit/pkg/render/spacing"
	"github.com/stavekit/stavekit/pkg/render/svg"
	"github.com/stavekit/stavekit/pkg/score"
)

// canvasMargin is the horizontal room kept right of the stave.
const canvasMargin = 10.0

// Render generates output artifacts in the requested formats.
func Render(f *format.Formatter, stave *score.Stave, voices []*score.Voice, l Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	canvasWidth := stave.X() + stave.Width() + canvasMargin
	artifacts := make(map[string][]byte)

	for _, kind := range opts.Formats {
		var data []byte
		var err error

		switch kind {
		case FormatSVG:
			data = renderSVG(stave, voices, canvasWidth, opts.Height)
		case FormatPNG:
			data, err = renderPNG(stave, voices, canvasWidth, opts)
		case FormatJSON:
			data, err = MarshalLayout(l)
		case FormatDOT:
			// The layout carries the gaps so a replayed cache hit
			// still renders the spacing graph.
			data = []byte(spacing.ToDOT(f.TickContexts(), l.Gaps, spacing.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", kind)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", kind, err)
		}
		artifacts[kind] = data
	}

	return artifacts, nil
}

func renderSVG(stave *score.Stave, voices []*score.Voice, width, height float64) []byte {
	s := svg.New(svg.WithSize(width, height))
	render.DrawScore(s, stave, voices)
	return s.Bytes()
}

func renderPNG(stave *score.Stave, voices []*score.Voice, width float64, opts Options) ([]byte, error) {
	s, err := raster.New(raster.WithSize(width, opts.Height), raster.WithScale(opts.Scale))
	if err != nil {
		return nil, err
	}
	render.DrawScore(s, stave, voices)

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
