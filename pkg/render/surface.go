package render

import "image/color"

// Surface is the minimal 2D canvas DrawScore needs. Implementations
// translate these calls into their backing format; all coordinates are
// in the same unit space the formatter works in, y growing downward.
type Surface interface {
	// Size returns the drawable area.
	Size() (width, height float64)

	SetFill(c color.Color)
	SetStroke(c color.Color)
	SetLineWidth(w float64)

	// Path primitives. A path is built with MoveTo/LineTo/
	// QuadraticCurveTo/ClosePath and realized by Fill or Stroke.
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	ClosePath()
	Fill()
	Stroke()

	// Shape helpers.
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	Ellipse(cx, cy, rx, ry float64)
	FillEllipse(cx, cy, rx, ry float64)

	// Text draws s with its baseline at (x, y).
	Text(s string, x, y float64)
	MeasureText(s string) float64
}
