package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	skillBarWidth  = 118
	skillBarHeight = 12
	levelRectSize  = 10
	levelRectGap   = 6
	borderWidth    = 1
)

var (
	skillBarFill = color.RGBA{70, 100, 120, 220}
	borderColor  = color.White
)

// SkillBar shows a skill's cooldown progress and level.
type SkillBar struct {
	X, Y  float32
	Label string
	Key   string
}

func NewSkillBar(x, y float32, label, key string) *SkillBar {
	return &SkillBar{X: x, Y: y, Label: label, Key: key}
}

// Draw renders the bar. ready is the cooldown progress in [0, 1].
func (b *SkillBar) Draw(screen *ebiten.Image, face font.Face, ready float64, level, maxLevel, cost int) {
	text.Draw(screen, fmt.Sprintf("[%s] %s %d", b.Key, b.Label, cost), face, int(b.X), int(b.Y)-4, borderColor)

	vector.StrokeRect(screen, b.X, b.Y, skillBarWidth, skillBarHeight, borderWidth, borderColor, true)
	if ready > 1 {
		ready = 1
	}
	fillWidth := float32(float64(skillBarWidth-borderWidth*2) * ready)
	if fillWidth > 0 {
		vector.DrawFilledRect(screen, b.X+borderWidth, b.Y+borderWidth, fillWidth, skillBarHeight-borderWidth*2, skillBarFill, true)
	}

	rectY := b.Y + skillBarHeight + 4
	for j := 0; j < maxLevel; j++ {
		rectX := b.X + float32(j)*(levelRectSize+levelRectGap)
		vector.StrokeRect(screen, rectX, rectY, levelRectSize, levelRectSize, borderWidth, borderColor, true)
		if j < level {
			vector.DrawFilledRect(screen, rectX+borderWidth, rectY+borderWidth, levelRectSize-borderWidth*2, levelRectSize-borderWidth*2, skillBarFill, true)
		}
	}
}
