// internal/ui/button.go
package ui

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"tower-siege/internal/config"
)

// Button представляет собой кликабельную кнопку в UI.
type Button struct {
	Rect       image.Rectangle
	Text       string
	TextColor  color.Color
	BgColor    color.Color
	HoverColor color.Color
	Disabled   bool
}

// NewButton создает новую кнопку.
func NewButton(rect image.Rectangle, label string) *Button {
	return &Button{
		Rect:       rect,
		Text:       label,
		TextColor:  config.TextDarkColor,
		BgColor:    color.RGBA{200, 200, 200, 255},
		HoverColor: color.RGBA{150, 150, 150, 255},
	}
}

// Contains проверяет, попадает ли точка в кнопку.
func (b *Button) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}

// IsClicked reports a click on an enabled button.
func (b *Button) IsClicked(x, y int) bool {
	return !b.Disabled && b.Contains(x, y)
}

// Draw отрисовывает кнопку.
func (b *Button) Draw(screen *ebiten.Image, face font.Face) {
	bg := b.BgColor
	mx, my := ebiten.CursorPosition()
	if !b.Disabled && b.Contains(mx, my) {
		bg = b.HoverColor
	}
	if b.Disabled {
		bg = color.RGBA{90, 90, 90, 255}
	}
	x, y := float32(b.Rect.Min.X), float32(b.Rect.Min.Y)
	w, h := float32(b.Rect.Dx()), float32(b.Rect.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{80, 80, 80, 255}, false)

	textX := b.Rect.Min.X + (b.Rect.Dx()-len(b.Text)*config.TextCharWidth)/2
	textY := b.Rect.Min.Y + b.Rect.Dy()/2 + config.TextOffsetY
	text.Draw(screen, b.Text, face, textX, textY, b.TextColor)
}

// fillImg — белый пиксель для заливки треугольников, создаётся при первой отрисовке.
var fillImg *ebiten.Image

// fillTriangle draws a solid triangle.
func fillTriangle(screen *ebiten.Image, x1, y1, x2, y2, x3, y3 float32, clr color.Color) {
	if fillImg == nil {
		fillImg = ebiten.NewImage(1, 1)
		fillImg.Fill(color.White)
	}
	r, g, b, a := clr.RGBA()
	cr, cg, cb, ca := float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, float32(a)/0xffff
	vs := []ebiten.Vertex{
		{DstX: x1, DstY: y1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: x2, DstY: y2, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: x3, DstY: y3, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
	}
	screen.DrawTriangles(vs, []uint16{0, 1, 2}, fillImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// strokeTriangle draws a triangle outline.
func strokeTriangle(screen *ebiten.Image, x1, y1, x2, y2, x3, y3 float32, clr color.Color) {
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, clr, true)
	vector.StrokeLine(screen, x2, y2, x3, y3, 1, clr, true)
	vector.StrokeLine(screen, x3, y3, x1, y1, 1, clr, true)
}

// clickScale — короткая "пружина" после клика.
func clickScale(elapsedSeconds float64) float32 {
	return float32(1.0 + 0.3*math.Exp(-elapsedSeconds*8))
}
