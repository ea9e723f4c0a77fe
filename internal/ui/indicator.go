// internal/ui/indicator.go
package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// StateIndicator показывает фазу сессии; клик по нему запускает волну.
type StateIndicator struct {
	X, Y          float32
	Radius        float32
	LastClickTime time.Time
}

func NewStateIndicator(x, y, radius float32) *StateIndicator {
	return &StateIndicator{
		X:      x,
		Y:      y,
		Radius: radius,
	}
}

// Draw отрисовывает индикатор
func (i *StateIndicator) Draw(screen *ebiten.Image, stateColor color.Color) {
	r := i.Radius * clickScale(time.Since(i.LastClickTime).Seconds())
	vector.DrawFilledCircle(screen, i.X, i.Y, r, stateColor, true)
	vector.StrokeCircle(screen, i.X, i.Y, r, 1, color.White, true)
}

// IsClicked проверяет, был ли клик внутри индикатора
func (i *StateIndicator) IsClicked(x, y int) bool {
	dx, dy := float32(x)-i.X, float32(y)-i.Y
	return dx*dx+dy*dy <= i.Radius*i.Radius
}

// HandleClick обрабатывает клик
func (i *StateIndicator) HandleClick() {
	i.LastClickTime = time.Now()
}
