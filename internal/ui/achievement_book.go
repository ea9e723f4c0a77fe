package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"tower-siege/internal/config"
	"tower-siege/internal/defs"
)

// AchievementBook — окно со списком достижений.
type AchievementBook struct {
	IsOpen   bool
	fontFace font.Face
}

func NewAchievementBook(face font.Face) *AchievementBook {
	return &AchievementBook{fontFace: face}
}

func (b *AchievementBook) Toggle() {
	b.IsOpen = !b.IsOpen
}

// entryLabel hides the name and description of locked hidden entries.
func entryLabel(a defs.Achievement, unlocked bool) (string, string) {
	if a.Hidden && !unlocked {
		return "???", "Hidden achievement"
	}
	return a.Title, a.Description
}

func (b *AchievementBook) Draw(screen *ebiten.Image, achievements []defs.Achievement, unlocked map[string]bool) {
	if !b.IsOpen {
		return
	}
	const (
		bookW = 520
		rowH  = 36
	)
	bookH := 60 + rowH*len(achievements)
	x := float32(config.ScreenWidth-bookW) / 2
	y := float32(config.ScreenHeight-bookH) / 2

	vector.DrawFilledRect(screen, x, y, bookW, float32(bookH), color.RGBA{R: 30, G: 30, B: 40, A: 240}, true)
	vector.StrokeRect(screen, x, y, bookW, float32(bookH), 2, color.RGBA{R: 180, G: 140, B: 20, A: 255}, true)

	title := "Achievements"
	text.Draw(screen, title, b.fontFace, int(x)+(bookW-len(title)*config.TextCharWidth)/2, int(y)+28, color.White)

	rowY := int(y) + 60
	for _, a := range achievements {
		done := unlocked[a.ID]
		name, desc := entryLabel(a, done)
		clr := color.Color(color.RGBA{140, 140, 140, 255})
		if done {
			clr = color.RGBA{255, 215, 0, 255}
		}
		text.Draw(screen, name, b.fontFace, int(x)+20, rowY, clr)
		text.Draw(screen, desc, b.fontFace, int(x)+20, rowY+14, config.TextLightColor)
		rowY += rowH
	}
}
