package render

import (
	"image/color"

	"github.com/stavekit/stavekit/pkg/glyph"
	"github.com/stavekit/stavekit/pkg/score"
)

// accidentalGlyphs maps accidental codes to their drawn glyphs.
var accidentalGlyphs = map[string]string{
	"#":  "♯",
	"##": "\U0001d12a",
	"b":  "♭",
	"bb": "\U0001d12b",
	"n":  "♮",
}

var ink = color.Black

// DrawStave draws the stave lines across the stave's width.
func DrawStave(s Surface, stave *score.Stave) {
	s.SetStroke(ink)
	s.SetLineWidth(1)
	for line := 1; line <= stave.NumLines(); line++ {
		y := stave.YForLine(float64(line))
		s.Line(stave.X(), y, stave.NoteEndX(), y)
	}
}

// DrawScore draws a stave and every formatted voice on it. Positions
// come straight from the tickables; the formatter must have run first.
func DrawScore(s Surface, stave *score.Stave, voices []*score.Voice) {
	DrawStave(s, stave)
	origin := stave.NoteStartX()
	for _, voice := range voices {
		for _, tk := range voice.Tickables() {
			drawTickable(s, stave, tk, origin)
		}
	}
}

func drawTickable(s Surface, stave *score.Stave, tk score.Tickable, origin float64) {
	n, ok := tk.(*score.Note)
	if !ok {
		if b, isBar := tk.(*score.BarNote); isBar {
			x := origin + b.X() + b.XShift()
			s.SetStroke(ink)
			s.Line(x, stave.YForLine(float64(stave.NumLines())), x, stave.BottomY())
		}
		return
	}

	x := origin + n.X() + n.XShift()
	if n.CenterAligned() {
		x += n.CenterXShift()
	}
	if n.IsRest() {
		drawRest(s, stave, n, x)
		return
	}
	drawNote(s, stave, n, x)
}

func drawNote(s Surface, stave *score.Stave, n *score.Note, x float64) {
	headWidth := n.GlyphWidth()
	spacing := stave.LineSpacing()
	s.SetFill(ink)
	s.SetStroke(ink)

	topY, bottomY := stave.BottomY(), stave.Y()
	for _, p := range n.KeyProps() {
		headX := x
		if p.Displaced {
			if n.StemDirection() == score.StemUp {
				headX += headWidth
			} else {
				headX -= headWidth
			}
		}
		y := stave.YForLine(p.Line)
		if y < topY {
			topY = y
		}
		if y > bottomY {
			bottomY = y
		}
		drawLedgerLines(s, stave, p.Line, headX, headWidth)
		cx, cy := headX+headWidth/2, y
		rx, ry := headWidth/2, spacing/2-0.5
		// Whole and half noteheads are hollow.
		if n.Duration() == "1" || n.Duration() == "2" {
			s.Ellipse(cx, cy, rx, ry)
		} else {
			s.FillEllipse(cx, cy, rx, ry)
		}
	}

	// Whole notes carry no stem.
	if n.Duration() != "1" {
		stemHeight := 3.5 * spacing
		s.SetLineWidth(1.2)
		if n.StemDirection() == score.StemUp {
			s.Line(x+headWidth, bottomY, x+headWidth, topY-stemHeight)
		} else {
			s.Line(x, topY, x, bottomY+stemHeight)
		}
	}

	drawModifiers(s, stave, n, x, headWidth)
}

func drawModifiers(s Surface, stave *score.Stave, n *score.Note, x, headWidth float64) {
	eng := glyph.DefaultEngraving()
	for _, m := range n.Modifiers() {
		switch mod := m.(type) {
		case *score.Accidental:
			line := keyLine(n, mod.Index())
			g := accidentalGlyphs[mod.Type]
			ax := x - eng.NoteheadAccidentalPadding - mod.XShift() - mod.Width()
			s.Text(g, ax, stave.YForLine(line)+spacingThird(stave))
		case *score.Dot:
			line := keyLine(n, mod.Index())
			// Dots on a line render in the space above.
			if line == float64(int(line)) {
				line += 0.5
			}
			dx := x + headWidth + dotClearance + mod.XShift()
			s.FillEllipse(dx, stave.YForLine(line), dotRadius, dotRadius)
		case *score.GraceNoteGroup:
			gx := x + mod.XShift()
			for _, grace := range mod.GraceNotes() {
				drawGraceNote(s, stave, grace, gx)
				gx += grace.Width() + graceAdvance
			}
		}
	}
}

const (
	dotClearance = 3.0
	dotRadius    = 2.0
	graceAdvance = 2.0
)

func drawGraceNote(s Surface, stave *score.Stave, n *score.Note, x float64) {
	w := n.GlyphWidth() * graceScale
	spacing := stave.LineSpacing()
	s.SetFill(ink)
	for _, p := range n.KeyProps() {
		y := stave.YForLine(p.Line)
		s.FillEllipse(x+w/2, y, w/2, (spacing/2-0.5)*graceScale)
	}
	s.SetLineWidth(0.8)
	if len(n.KeyProps()) > 0 {
		top := stave.YForLine(n.KeyProps()[len(n.KeyProps())-1].Line)
		s.Line(x+w, top, x+w, top-2.4*spacing)
	}
}

const graceScale = 0.66

func drawRest(s Surface, stave *score.Stave, n *score.Note, x float64) {
	w := n.GlyphWidth()
	spacing := stave.LineSpacing()
	s.SetFill(ink)
	switch n.Duration() {
	case "1":
		// Whole rest hangs below its line.
		y := stave.YForLine(n.RestLine() + 0.5)
		s.FillRect(x, y, w, spacing/2)
	case "2":
		// Half rest sits on its line.
		y := stave.YForLine(n.RestLine())
		s.FillRect(x, y-spacing/2, w, spacing/2)
	default:
		// Shorter rests render as a slanted stroke with a hook.
		y := stave.YForLine(n.RestLine())
		s.SetStroke(ink)
		s.SetLineWidth(1.5)
		s.Line(x+w*0.7, y-spacing, x+w*0.3, y+spacing)
		s.FillEllipse(x+w*0.3, y-spacing*0.6, dotRadius, dotRadius)
	}
}

func keyLine(n *score.Note, index int) float64 {
	props := n.KeyProps()
	if index < 0 || index >= len(props) {
		return 3
	}
	return props[index].Line
}

func spacingThird(stave *score.Stave) float64 {
	return stave.LineSpacing() / 3
}

func drawLedgerLines(s Surface, stave *score.Stave, line, x, headWidth float64) {
	s.SetLineWidth(1)
	for l := 0.0; l >= line; l-- {
		y := stave.YForLine(l)
		s.Line(x-ledgerOverhang, y, x+headWidth+ledgerOverhang, y)
	}
	for l := float64(stave.NumLines() + 1); l <= line; l++ {
		y := stave.YForLine(l)
		s.Line(x-ledgerOverhang, y, x+headWidth+ledgerOverhang, y)
	}
}

const ledgerOverhang = 3.0
