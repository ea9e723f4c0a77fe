// internal/ui/pause_button.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type PauseButton struct {
	X, Y           float32
	Size           float32
	LastClickTime  time.Time
	LastToggleTime time.Time
	IsPaused       bool
	PauseColor     color.Color
	PlayColor      color.Color
}

func NewPauseButton(x, y, size float32, pauseColor, playColor color.Color) *PauseButton {
	return &PauseButton{
		X:          x,
		Y:          y,
		Size:       size,
		PauseColor: pauseColor,
		PlayColor:  playColor,
	}
}

func (b *PauseButton) Draw(screen *ebiten.Image) {
	rectSize := b.Size * clickScale(time.Since(b.LastClickTime).Seconds())

	if b.IsPaused {
		// Треугольник (play)
		x1, y1 := b.X-rectSize, b.Y-rectSize*1.2
		x2, y2 := b.X-rectSize, b.Y+rectSize*1.2
		x3, y3 := b.X+rectSize, b.Y
		fillTriangle(screen, x1, y1, x2, y2, x3, y3, b.PlayColor)
		strokeTriangle(screen, x1, y1, x2, y2, x3, y3, color.White)
		return
	}
	// Два прямоугольника (pause)
	width := rectSize * 0.6
	height := rectSize * 2.0
	spacing := rectSize * 0.4
	vector.DrawFilledRect(screen, b.X-width-spacing/2, b.Y-height/2, width, height, b.PauseColor, false)
	vector.StrokeRect(screen, b.X-width-spacing/2, b.Y-height/2, width, height, 1, color.White, false)
	vector.DrawFilledRect(screen, b.X+spacing/2, b.Y-height/2, width, height, b.PauseColor, false)
	vector.StrokeRect(screen, b.X+spacing/2, b.Y-height/2, width, height, 1, color.White, false)
}

func (b *PauseButton) IsClicked(x, y int) bool {
	dx, dy := float32(x)-b.X, float32(y)-b.Y
	return dx*dx+dy*dy <= b.Size*b.Size*2
}

func (b *PauseButton) SetPaused(paused bool) {
	if b.IsPaused != paused {
		b.LastToggleTime = time.Now()
	}
	b.IsPaused = paused
}

func (b *PauseButton) HandleClick() {
	b.LastClickTime = time.Now()
}
