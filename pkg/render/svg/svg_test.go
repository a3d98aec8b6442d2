package svg

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestSurfaceDeterministic(t *testing.T) {
	draw := func() []byte {
		s := New(WithSize(100, 50))
		s.Line(0, 10, 100, 10)
		s.FillEllipse(20, 10, 5, 4)
		s.Text("♯", 10, 14)
		return s.Bytes()
	}
	if !bytes.Equal(draw(), draw()) {
		t.Error("identical drawing sequences should produce identical SVG")
	}
}

func TestSurfaceDocumentShape(t *testing.T) {
	s := New(WithSize(320, 120), WithBackground(color.White))
	s.Line(0, 0, 320, 0)
	out := string(s.Bytes())

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg root element")
	}
	if !strings.Contains(out, `viewBox="0 0 320.0 120.0"`) {
		t.Errorf("unexpected viewBox in %q", out)
	}
	if !strings.Contains(out, `fill="#ffffff"`) {
		t.Error("background rect not emitted")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestPathAccumulation(t *testing.T) {
	s := New()
	s.MoveTo(0, 0)
	s.LineTo(10, 0)
	s.QuadraticCurveTo(15, 5, 10, 10)
	s.ClosePath()
	s.Fill()
	out := string(s.Bytes())

	if !strings.Contains(out, "M0.00 0.00 L10.00 0.00 Q15.00 5.00 10.00 10.00 Z") {
		t.Errorf("path data missing from %q", out)
	}

	// Fill consumed the path; an immediate Stroke has nothing to emit.
	before := len(s.Bytes())
	s.Stroke()
	if len(s.Bytes()) != before {
		t.Error("Stroke after Fill should emit nothing")
	}
}

func TestTextEscaped(t *testing.T) {
	s := New()
	s.Text("<&>", 0, 0)
	out := string(s.Bytes())
	if !strings.Contains(out, "&lt;&amp;&gt;") {
		t.Errorf("text not escaped in %q", out)
	}
}

func TestClassPrefix(t *testing.T) {
	s := New(WithClassPrefix("sk"))
	s.Line(0, 0, 1, 1)
	if !strings.Contains(string(s.Bytes()), `class="sk-line"`) {
		t.Error("class prefix not applied")
	}
}
