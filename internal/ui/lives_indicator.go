// internal/ui/lives_indicator.go
package ui

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	LivesCols          = 10
	LivesCircleRadius  = 5.0
	LivesCircleSpacing = 3.0
)

// LivesIndicator отображает жизни игрока сеткой кружков.
type LivesIndicator struct {
	X, Y float32
}

func NewLivesIndicator(x, y float32) *LivesIndicator {
	return &LivesIndicator{X: x, Y: y}
}

// Draw рисует индикатор. Меньше половины жизней — кружки красные.
func (i *LivesIndicator) Draw(screen *ebiten.Image, face font.Face, lives, maxLives int) {
	fill := color.RGBA{70, 130, 220, 255}
	if lives*2 <= maxLives {
		fill = color.RGBA{220, 40, 40, 255}
	}
	step := float32(LivesCircleRadius*2 + LivesCircleSpacing)
	for j := 0; j < maxLives; j++ {
		cx := i.X + float32(j%LivesCols)*step + LivesCircleRadius
		cy := i.Y + float32(j/LivesCols)*step + LivesCircleRadius
		c := color.Color(color.Black)
		if j < lives {
			c = fill
		}
		vector.DrawFilledCircle(screen, cx, cy, LivesCircleRadius, c, true)
		vector.StrokeCircle(screen, cx, cy, LivesCircleRadius, 1, color.White, true)
	}

	// Текстовое отображение справа от сетки
	label := strconv.Itoa(lives) + "/" + strconv.Itoa(maxLives)
	text.Draw(screen, label, face, int(i.X+step*LivesCols)+6, int(i.Y)+10, color.White)
}
