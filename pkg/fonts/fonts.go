// Package fonts provides the bundled text face shared by the renderers.
//
// The Go Regular typeface ships with the binary through
// golang.org/x/image/font/gofont, so rendered output never depends on
// fonts installed on the host.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name for rendered text.
const FontFamily = "Go"

// FallbackFontFamily provides fallbacks for viewers without the Go face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`

// Cache for the parsed font (computed once on first access).
var (
	textFont     *truetype.Font
	textFontErr  error
	textFontOnce sync.Once
)

// Text returns the parsed Go Regular font.
func Text() (*truetype.Font, error) {
	textFontOnce.Do(func() {
		textFont, textFontErr = truetype.Parse(goregular.TTF)
		if textFontErr != nil {
			textFontErr = fmt.Errorf("parse text font: %w", textFontErr)
		}
	})
	return textFont, textFontErr
}

// Face returns a rendering face at the given point size.
func Face(size float64) (font.Face, error) {
	f, err := Text()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	}), nil
}
