// Package svg renders a score to Scalable Vector Graphics markup. The
// surface accumulates body markup in a buffer and wraps it with the svg
// element when Bytes is called, so the output is deterministic for a
// fixed drawing sequence.
package svg

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/stavekit/stavekit/pkg/fonts"
	"github.com/stavekit/stavekit/pkg/render"
)

// Option configures an SVG surface.
type Option func(*Surface)

// WithSize sets the surface dimensions (default 800x200).
func WithSize(width, height float64) Option {
	return func(s *Surface) {
		s.width = width
		s.height = height
	}
}

// WithBackground fills the canvas with the given color before any
// drawing. Without it the background is transparent.
func WithBackground(c color.Color) Option {
	return func(s *Surface) { s.background = colorAttr(c) }
}

// WithClassPrefix namespaces the emitted class attributes so several
// scores can share one document.
func WithClassPrefix(prefix string) Option {
	return func(s *Surface) { s.prefix = prefix }
}

// WithFontSize sets the text size in canvas units (default 14).
func WithFontSize(size float64) Option {
	return func(s *Surface) { s.fontSize = size }
}

// Surface implements render.Surface by emitting SVG elements.
type Surface struct {
	body bytes.Buffer

	width, height float64
	background    string
	prefix        string
	fontSize      float64

	fill      string
	stroke    string
	lineWidth float64
	path      strings.Builder
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty SVG surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		width:     800,
		height:    200,
		fontSize:  14,
		fill:      "#000000",
		stroke:    "#000000",
		lineWidth: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) SetFill(c color.Color)   { s.fill = colorAttr(c) }
func (s *Surface) SetStroke(c color.Color) { s.stroke = colorAttr(c) }
func (s *Surface) SetLineWidth(w float64)  { s.lineWidth = w }

func (s *Surface) MoveTo(x, y float64) { fmt.Fprintf(&s.path, "M%.2f %.2f ", x, y) }
func (s *Surface) LineTo(x, y float64) { fmt.Fprintf(&s.path, "L%.2f %.2f ", x, y) }

func (s *Surface) QuadraticCurveTo(cx, cy, x, y float64) {
	fmt.Fprintf(&s.path, "Q%.2f %.2f %.2f %.2f ", cx, cy, x, y)
}

func (s *Surface) ClosePath() { s.path.WriteString("Z ") }

func (s *Surface) Fill() {
	if s.path.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <path%s d=%q fill="%s"/>`+"\n", s.class("path"), strings.TrimSpace(s.path.String()), s.fill)
	s.path.Reset()
}

func (s *Surface) Stroke() {
	if s.path.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <path%s d=%q fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
		s.class("path"), strings.TrimSpace(s.path.String()), s.stroke, s.lineWidth)
	s.path.Reset()
}

func (s *Surface) Line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&s.body, `  <line%s x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		s.class("line"), x1, y1, x2, y2, s.stroke, s.lineWidth)
}

func (s *Surface) Rect(x, y, w, h float64) {
	fmt.Fprintf(&s.body, `  <rect%s x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
		s.class("rect"), x, y, w, h, s.stroke, s.lineWidth)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	fmt.Fprintf(&s.body, `  <rect%s x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		s.class("rect"), x, y, w, h, s.fill)
}

func (s *Surface) Ellipse(cx, cy, rx, ry float64) {
	fmt.Fprintf(&s.body, `  <ellipse%s cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
		s.class("ellipse"), cx, cy, rx, ry, s.stroke, s.lineWidth)
}

func (s *Surface) FillEllipse(cx, cy, rx, ry float64) {
	fmt.Fprintf(&s.body, `  <ellipse%s cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" fill="%s"/>`+"\n",
		s.class("ellipse"), cx, cy, rx, ry, s.fill)
}

func (s *Surface) Text(text string, x, y float64) {
	fmt.Fprintf(&s.body, `  <text%s x="%.2f" y="%.2f" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
		s.class("text"), x, y, fonts.FallbackFontFamily, s.fontSize, s.fill, escape(text))
}

// MeasureText estimates the width of text; without font metrics the SVG
// surface assumes an average glyph aspect.
func (s *Surface) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * s.fontSize * 0.6
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.background)
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (s *Surface) class(kind string) string {
	if s.prefix == "" {
		return ""
	}
	return fmt.Sprintf(` class="%s-%s"`, s.prefix, kind)
}

func colorAttr(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return escaper.Replace(s) }
