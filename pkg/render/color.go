// pkg/render/color.go
package render

import (
	"fmt"
	"image/color"
)

// MapColors holds all the color definitions needed to render the static map background.
type MapColors struct {
	BackgroundColor color.RGBA
	GrassColor      color.RGBA
	PathColor       color.RGBA
	FlyingPathColor color.RGBA
	GridLineColor   color.RGBA
	TextColor       color.RGBA
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// WithAlpha returns c with its alpha scaled by a in [0, 1].
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	// Цвета premultiplied, поэтому масштабируем все каналы.
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// ParseHex converts "#rrggbb" into an opaque color. Malformed input yields
// white.
func ParseHex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{r, g, b, 255}
}
