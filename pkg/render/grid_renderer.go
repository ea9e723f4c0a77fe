package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"tower-siege/internal/component"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/utils"
	"tower-siege/pkg/gridmap"
)

// GridRenderer draws a square-grid map and the entities of a snapshot.
type GridRenderer struct {
	mapDef   *defs.MapDefinition
	colors   MapColors
	fontFace font.Face
	mapImage *ebiten.Image // Поле для предрендеренной карты
}

func NewGridRenderer(mapDef *defs.MapDefinition, colors MapColors, face font.Face) *GridRenderer {
	r := &GridRenderer{
		mapDef:   mapDef,
		colors:   colors,
		fontFace: face,
		mapImage: ebiten.NewImage(config.ScreenWidth, config.ScreenHeight),
	}
	// Отрисовываем карту один раз при инициализации
	r.RenderMapImage()
	return r
}

// ToScreen converts grid coordinates to the pixel centre of that point.
func ToScreen(x, y float64) (float32, float32) {
	return float32(config.FieldOffsetX + x*config.CellSize + config.CellSize/2),
		float32(config.FieldOffsetY + y*config.CellSize + config.CellSize/2)
}

// ScreenToCell returns the grid cell under a pixel, if any.
func (r *GridRenderer) ScreenToCell(x, y int) (gridmap.Cell, bool) {
	fx := (float64(x) - config.FieldOffsetX) / config.CellSize
	fy := (float64(y) - config.FieldOffsetY) / config.CellSize
	if fx < 0 || fy < 0 {
		return gridmap.Cell{}, false
	}
	c := gridmap.Cell{X: int(fx), Y: int(fy)}
	return c, c.InBounds(r.mapDef.Width, r.mapDef.Height)
}

// RenderMapImage создаёт предрендеренное изображение задника
func (r *GridRenderer) RenderMapImage() {
	r.mapImage.Clear()
	r.mapImage.Fill(r.colors.BackgroundColor)

	size := float32(config.CellSize)
	for y := 0; y < r.mapDef.Height; y++ {
		for x := 0; x < r.mapDef.Width; x++ {
			px := float32(config.FieldOffsetX) + float32(x)*size
			py := float32(config.FieldOffsetY) + float32(y)*size
			fill := r.colors.GrassColor
			if r.mapDef.Path.Contains(gridmap.Cell{X: x, Y: y}) {
				fill = r.colors.PathColor
			}
			vector.DrawFilledRect(r.mapImage, px, py, size, size, fill, false)
			vector.StrokeRect(r.mapImage, px, py, size, size, 1, r.colors.GridLineColor, false)
		}
	}

	// Воздушный путь — пунктир поверх клеток.
	if len(r.mapDef.FlyingPath) > 1 {
		for i := 1; i < len(r.mapDef.FlyingPath); i += 2 {
			a, b := r.mapDef.FlyingPath[i-1], r.mapDef.FlyingPath[i]
			x1, y1 := ToScreen(float64(a.X), float64(a.Y))
			x2, y2 := ToScreen(float64(b.X), float64(b.Y))
			vector.StrokeLine(r.mapImage, x1, y1, x2, y2, 6, r.colors.FlyingPathColor, true)
		}
	}
}

// Draw renders the snapshot. selected is the id of the highlighted defender
// (0 for none).
func (r *GridRenderer) Draw(screen *ebiten.Image, st *entity.GameState, selected int) {
	screen.DrawImage(r.mapImage, nil)

	for i := range st.Defenders {
		r.drawDefender(screen, st, &st.Defenders[i], st.Defenders[i].ID == selected)
	}
	for i := range st.Enemies {
		r.drawEnemy(screen, st, &st.Enemies[i])
	}
	for _, ft := range st.FloatingTexts {
		a := ft.Opacity(st.Clock)
		if a <= 0 {
			continue
		}
		x, y := ToScreen(ft.Position.X, ft.Position.Y)
		y -= float32(utils.Lerp(0, config.FloatingTextRiseY, 1-a))
		r.drawCenteredText(screen, ft.Text, x, y, WithAlpha(ParseHex(ft.Color), a))
	}

	if st.BlizzardActive() {
		vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, config.FreezeOverlay, false)
	}
	if st.ScreenFlashUntil > st.Clock {
		vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, config.FlashOverlay, false)
	}
}

func (r *GridRenderer) drawDefender(screen *ebiten.Image, st *entity.GameState, d *component.Defender, selected bool) {
	x, y := ToScreen(float64(d.Cell.X), float64(d.Cell.Y))
	fill, ok := config.DefenderColors[string(d.Type)]
	if !ok {
		fill = color.RGBA{200, 200, 200, 255}
	}
	if selected && d.Range > 0 {
		vector.StrokeCircle(screen, x, y, float32(d.Range*config.CellSize), 1.5, config.TextLightColor, true)
	}
	vector.DrawFilledCircle(screen, x, y, config.DefenderRadius+config.DefenderStroke, DarkenColor(fill), true)
	vector.DrawFilledCircle(screen, x, y, config.DefenderRadius, fill, true)
	if d.IsStunned(st.Clock) {
		vector.StrokeCircle(screen, x, y, config.DefenderRadius+4, 3, config.StunColor, true)
	}
	r.drawCenteredText(screen, fmt.Sprint(d.Level), x, y+config.TextOffsetY, config.TextDarkColor)
}

func (r *GridRenderer) drawEnemy(screen *ebiten.Image, st *entity.GameState, e *component.Enemy) {
	x, y := ToScreen(e.Position.X, e.Position.Y)
	radius := float32(config.EnemyRadius)
	fill := config.EnemyColor
	if e.IsBoss {
		radius = config.BossRadius
		fill = config.BossColor
	}
	if e.IsHit && e.HitUntil > st.Clock {
		fill = config.HitColor
	}
	if e.IsInvisible {
		fill = WithAlpha(fill, 0.3)
	}
	if e.HealGlow {
		vector.DrawFilledCircle(screen, x, y, radius+6, config.HealGlowColor, true)
	}
	vector.DrawFilledCircle(screen, x, y, radius, fill, true)
	if e.IsSlowed(st.Clock) {
		vector.StrokeCircle(screen, x, y, radius+2, 2, config.SlowColor, true)
	}
	if component.Active(e.BurningUntil, st.Clock) {
		// Пламя пульсирует, пока враг горит.
		pulse := float32(1 + 0.15*math.Sin(st.Clock/80))
		vector.StrokeCircle(screen, x, y, (radius+4)*pulse, 2, config.BurnColor, true)
	}

	barW := radius * 2
	vector.DrawFilledRect(screen, x-radius, y-radius-8, barW, 4, config.HPBarBackground, false)
	vector.DrawFilledRect(screen, x-radius, y-radius-8, barW*float32(e.HPPercent()), 4, config.HPBarColor, false)
}

func (r *GridRenderer) drawCenteredText(screen *ebiten.Image, s string, x, y float32, clr color.Color) {
	w := len(s) * config.TextCharWidth
	text.Draw(screen, s, r.fontFace, int(x)-w/2, int(y), clr)
}
