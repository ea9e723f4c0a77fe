package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"tower-siege/internal/config"
)

// WaveIndicator отображает номер текущей волны римскими цифрами.
type WaveIndicator struct {
	X, Y             int
	Color            color.Color
	BossColor        color.Color
	OutlineColor     color.Color
	OutlineThickness int
}

// NewWaveIndicator создает новый индикатор волны.
func NewWaveIndicator(x, y int) *WaveIndicator {
	return &WaveIndicator{
		X:                x,
		Y:                y,
		Color:            config.IdleStateColor,
		BossColor:        color.RGBA{220, 30, 30, 255},
		OutlineColor:     color.White,
		OutlineThickness: 1,
	}
}

// toRoman конвертирует целое число в римское.
func toRoman(num int) string {
	if num <= 0 {
		return ""
	}
	val := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syb := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var roman strings.Builder
	for i := 0; i < len(val); i++ {
		for num >= val[i] {
			roman.WriteString(syb[i])
			num -= val[i]
		}
	}
	return roman.String()
}

// Draw отрисовывает индикатор на экране. Волны с боссами красные.
func (i *WaveIndicator) Draw(screen *ebiten.Image, face font.Face, wave, maxWave int, bossWave bool) {
	if wave <= 0 {
		return
	}
	label := toRoman(wave) + " / " + toRoman(maxWave)

	textColor := i.Color
	if bossWave {
		textColor = i.BossColor
	}

	// Центрируем текст
	textX := i.X - len(label)*config.TextCharWidth/2
	textY := i.Y

	// Рисуем обводку
	for y := -i.OutlineThickness; y <= i.OutlineThickness; y++ {
		for x := -i.OutlineThickness; x <= i.OutlineThickness; x++ {
			if x == 0 && y == 0 {
				continue
			}
			text.Draw(screen, label, face, textX+x, textY+y, i.OutlineColor)
		}
	}
	text.Draw(screen, label, face, textX, textY, textColor)
}
