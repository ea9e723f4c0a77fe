// internal/ui/speed_button.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpeedButton shows the game speed as a colored double arrow.
type SpeedButton struct {
	X, Y           float32
	Size           float32
	LastClickTime  time.Time
	LastToggleTime time.Time
	StateColors    []color.Color
	CurrentState   int
}

func NewSpeedButton(x, y, size float32, stateColors []color.Color) *SpeedButton {
	return &SpeedButton{
		X:           x,
		Y:           y,
		Size:        size,
		StateColors: stateColors,
	}
}

// SetSpeed syncs the button with a multiplier from the speed list.
func (b *SpeedButton) SetSpeed(speeds []float64, multiplier float64) {
	for i, m := range speeds {
		if m == multiplier && i < len(b.StateColors) {
			b.CurrentState = i
			return
		}
	}
	b.CurrentState = 0
}

func (b *SpeedButton) Draw(screen *ebiten.Image) {
	triangleSize := b.Size * clickScale(time.Since(b.LastClickTime).Seconds())
	clr := b.StateColors[b.CurrentState]

	// Параметры треугольников
	height := triangleSize * 1.2
	width := triangleSize
	offset := width * 0.8

	// Левый треугольник
	fillTriangle(screen, b.X-width, b.Y-height/2, b.X, b.Y, b.X-width, b.Y+height/2, clr)
	strokeTriangle(screen, b.X-width, b.Y-height/2, b.X, b.Y, b.X-width, b.Y+height/2, color.White)

	// Правый треугольник
	fillTriangle(screen, b.X-width+offset, b.Y-height/2, b.X+offset, b.Y, b.X-width+offset, b.Y+height/2, clr)
	strokeTriangle(screen, b.X-width+offset, b.Y-height/2, b.X+offset, b.Y, b.X-width+offset, b.Y+height/2, color.White)
}

// IsClicked uses a circle hit area since the shape is irregular.
func (b *SpeedButton) IsClicked(x, y int) bool {
	dx, dy := float32(x)-b.X, float32(y)-b.Y
	r := b.Size * 1.5
	return dx*dx+dy*dy <= r*r
}

func (b *SpeedButton) HandleClick() {
	b.LastClickTime = time.Now()
	b.LastToggleTime = time.Now()
}
