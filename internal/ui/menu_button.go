// internal/ui/menu_button.go
package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"tower-siege/internal/config"
	"tower-siege/internal/defs"
)

// MapButton — кнопка выбора карты в меню.
type MapButton struct {
	Rect    image.Rectangle
	Map     *defs.MapDefinition
	Cleared bool
}

func NewMapButton(rect image.Rectangle, m *defs.MapDefinition, cleared bool) *MapButton {
	return &MapButton{Rect: rect, Map: m, Cleared: cleared}
}

// Draw отрисовывает кнопку.
func (b *MapButton) Draw(screen *ebiten.Image, face font.Face) {
	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	bg := color.RGBA{60, 60, 70, 255}
	mx, my := ebiten.CursorPosition()
	if b.IsClicked(mx, my) {
		bg = color.RGBA{90, 90, 110, 255}
	}
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{200, 200, 200, 255}, false)

	text.Draw(screen, b.Map.Name, face, b.Rect.Min.X+12, b.Rect.Min.Y+22, config.TextLightColor)
	sub := b.Map.Difficulty
	if b.Cleared {
		sub += "  cleared"
	}
	text.Draw(screen, sub, face, b.Rect.Min.X+12, b.Rect.Min.Y+42, color.RGBA{180, 180, 180, 255})
}

// IsClicked проверяет, был ли клик по кнопке.
func (b *MapButton) IsClicked(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}
