// Package raster renders a score to a PNG image over a fogleman/gg
// drawing context. Text uses the bundled Go Regular face so output does
// not depend on system fonts.
package raster

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/stavekit/stavekit/pkg/fonts"
	"github.com/stavekit/stavekit/pkg/render"
)

// Option configures a raster surface.
type Option func(*config)

type config struct {
	width, height float64
	scale         float64
	background    color.Color
	fontSize      float64
}

// WithSize sets the surface dimensions in layout units (default
// 800x200).
func WithSize(width, height float64) Option {
	return func(c *config) {
		c.width = width
		c.height = height
	}
}

// WithScale sets the pixel density multiplier (default 2.0, suited to
// high-DPI displays).
func WithScale(scale float64) Option {
	return func(c *config) { c.scale = scale }
}

// WithBackground paints the canvas before drawing (default white).
func WithBackground(bg color.Color) Option {
	return func(c *config) { c.background = bg }
}

// WithFontSize sets the text size in layout units (default 14).
func WithFontSize(size float64) Option {
	return func(c *config) { c.fontSize = size }
}

// Surface implements render.Surface over a gg drawing context.
type Surface struct {
	dc            *gg.Context
	width, height float64
	scale         float64
}

var _ render.Surface = (*Surface)(nil)

// New returns a raster surface ready to draw on.
func New(opts ...Option) (*Surface, error) {
	cfg := config{
		width:      800,
		height:     200,
		scale:      2.0,
		background: color.White,
		fontSize:   14,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dc := gg.NewContext(int(cfg.width*cfg.scale), int(cfg.height*cfg.scale))
	dc.Scale(cfg.scale, cfg.scale)
	dc.SetColor(cfg.background)
	dc.Clear()
	dc.SetColor(color.Black)

	face, err := fonts.Face(cfg.fontSize * cfg.scale)
	if err != nil {
		return nil, fmt.Errorf("load text face: %w", err)
	}
	dc.SetFontFace(face)

	return &Surface{dc: dc, width: cfg.width, height: cfg.height, scale: cfg.scale}, nil
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) SetFill(c color.Color)   { s.dc.SetColor(c) }
func (s *Surface) SetStroke(c color.Color) { s.dc.SetColor(c) }
func (s *Surface) SetLineWidth(w float64)  { s.dc.SetLineWidth(w) }

func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }

func (s *Surface) QuadraticCurveTo(cx, cy, x, y float64) {
	s.dc.QuadraticTo(cx, cy, x, y)
}

func (s *Surface) ClosePath() { s.dc.ClosePath() }
func (s *Surface) Fill()      { s.dc.Fill() }
func (s *Surface) Stroke()    { s.dc.Stroke() }

func (s *Surface) Line(x1, y1, x2, y2 float64) {
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *Surface) Rect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *Surface) Ellipse(cx, cy, rx, ry float64) {
	s.dc.DrawEllipse(cx, cy, rx, ry)
	s.dc.Stroke()
}

func (s *Surface) FillEllipse(cx, cy, rx, ry float64) {
	s.dc.DrawEllipse(cx, cy, rx, ry)
	s.dc.Fill()
}

func (s *Surface) Text(text string, x, y float64) {
	s.dc.DrawString(text, x, y)
}

// MeasureText reports the text width in layout units. The font face is
// sized for the scaled canvas, so the pixel width divides back down.
func (s *Surface) MeasureText(text string) float64 {
	w, _ := s.dc.MeasureString(text)
	return w / s.scale
}

// EncodePNG writes the rendered image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
