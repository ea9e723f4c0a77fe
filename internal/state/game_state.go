// internal/state/game_state.go
package state

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tower-siege/internal/app"
	"tower-siege/internal/component"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/ui"
	"tower-siege/internal/utils"
	"tower-siege/pkg/gridmap"
	"tower-siege/pkg/render"
)

// Клавиши выбора защитника, по порядку каталога.
var defenderKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// GameState — состояние игры
type GameState struct {
	sm       *StateMachine
	opts     app.Options
	game     *app.Game
	renderer *render.GridRenderer

	indicator   *ui.StateIndicator
	speedButton *ui.SpeedButton
	pauseButton *ui.PauseButton
	waveInd     *ui.WaveIndicator
	livesInd    *ui.LivesIndicator
	infoPanel   *ui.InfoPanel
	book        *ui.AchievementBook
	meteorBar   *ui.SkillBar
	blizzardBar *ui.SkillBar

	selectedType  defs.DefenderType
	lastClickTime time.Time
}

// NewGameState starts or resumes the session for opts.MapID.
func NewGameState(sm *StateMachine, opts app.Options) (*GameState, error) {
	g, err := app.NewGame(opts)
	if err != nil {
		return nil, err
	}
	colors := render.MapColors{
		BackgroundColor: config.BackgroundColor,
		GrassColor:      config.GrassColor,
		PathColor:       config.PathColor,
		FlyingPathColor: config.FlyingPathColor,
		GridLineColor:   config.GridLineColor,
		TextColor:       config.TextLightColor,
	}
	hudY := float32(config.HUDHeight) / 2
	return &GameState{
		sm:           sm,
		opts:         opts,
		game:         g,
		renderer:     render.NewGridRenderer(g.Map, colors, uiFont),
		indicator:    ui.NewStateIndicator(config.ScreenWidth-30, hudY, 14),
		speedButton:  ui.NewSpeedButton(config.ScreenWidth-80, hudY, 10, config.SpeedButtonColors),
		pauseButton:  ui.NewPauseButton(config.ScreenWidth-125, hudY, 8, config.TextLightColor, config.TextLightColor),
		waveInd:      ui.NewWaveIndicator(config.ScreenWidth/2, 30),
		livesInd:     ui.NewLivesIndicator(20, 10),
		infoPanel:    ui.NewInfoPanel(uiFont),
		book:         ui.NewAchievementBook(uiFont),
		meteorBar:    ui.NewSkillBar(config.ScreenWidth-300, config.ScreenHeight-60, "Meteor", "Q"),
		blizzardBar:  ui.NewSkillBar(config.ScreenWidth-160, config.ScreenHeight-60, "Blizzard", "W"),
		selectedType: defs.DefenderWarrior,
	}, nil
}

// Game returns the running session.
func (g *GameState) Game() *app.Game {
	return g.game
}

func (g *GameState) Enter() {
	g.pauseButton.SetPaused(g.game.Snapshot().Phase == component.PhasePaused)
}

func (g *GameState) Update(deltaTime float64) {
	g.infoPanel.Update()
	g.handleKeys()
	if g.sm.Current() != g {
		return
	}

	st := g.game.Step(deltaTime * 1000)
	g.speedButton.SetSpeed(g.game.Catalog.Rules.SpeedMultipliers, st.SpeedMultiplier)
	g.pauseButton.SetPaused(st.Phase == component.PhasePaused)
	if g.infoPanel.TargetID != 0 && st.Defender(g.infoPanel.TargetID) == nil {
		g.infoPanel.Hide()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if !g.handleUIClick(x, y) {
			g.handleGameClick(x, y)
		}
		g.lastClickTime = time.Now()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.infoPanel.Hide()
	}
}

func (g *GameState) handleKeys() {
	for i, key := range defenderKeys {
		if i < len(g.game.Catalog.DefenderOrder) && inpututil.IsKeyJustPressed(key) {
			g.selectedType = g.game.Catalog.DefenderOrder[i]
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.game.StartWave()
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.pause()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.game.TriggerMeteor()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.game.TriggerBlizzard()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.game.UpgradeSkill(defs.SkillMeteor)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.game.UpgradeSkill(defs.SkillBlizzard)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.game.SetSpeed(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.game.RestoreCheckpoint()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.book.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if g.game.Snapshot().Phase.Over() {
			g.game.Reset()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.sm.SetState(NewMenuState(g.sm, g.opts))
	}
}

func (g *GameState) pause() {
	if _, ok := g.game.Pause(); ok {
		g.pauseButton.HandleClick()
		g.sm.SetState(NewPauseState(g.sm, g))
	}
}

// handleUIClick обрабатывает клики по UI и сообщает, был ли клик по нему.
func (g *GameState) handleUIClick(x, y int) bool {
	cooldown := time.Duration(config.ClickCooldown) * time.Millisecond
	switch {
	case g.indicator.IsClicked(x, y):
		if time.Since(g.indicator.LastClickTime) >= cooldown {
			g.indicator.HandleClick()
			g.game.StartWave()
		}
	case g.speedButton.IsClicked(x, y):
		if time.Since(g.speedButton.LastToggleTime) >= cooldown {
			g.speedButton.HandleClick()
			g.game.SetSpeed(0)
		}
	case g.pauseButton.IsClicked(x, y):
		if time.Since(g.pauseButton.LastToggleTime) >= cooldown {
			g.pause()
		}
	case g.infoPanel.Contains(x, y):
		switch g.infoPanel.HandleClick(x, y) {
		case ui.PanelUpgrade:
			g.game.UpgradeDefender(g.infoPanel.TargetID)
		case ui.PanelSell:
			g.game.SellDefender(g.infoPanel.TargetID)
			g.infoPanel.Hide()
		}
	default:
		return false
	}
	return true
}

func (g *GameState) handleGameClick(x, y int) {
	cell, ok := g.renderer.ScreenToCell(x, y)
	if !ok {
		g.infoPanel.Hide()
		return
	}
	if d, found := g.game.DefenderAt(cell); found {
		g.infoPanel.SetTarget(d.ID)
		return
	}
	g.infoPanel.Hide()
	g.game.PlaceDefender(g.selectedType, cell)
}

func (g *GameState) Draw(screen *ebiten.Image) {
	st := g.game.Snapshot()
	g.renderer.Draw(screen, st, g.infoPanel.TargetID)
	g.drawPlacementPreview(screen)
	g.drawHUD(screen, st)

	if d := st.Defender(g.infoPanel.TargetID); d != nil || g.infoPanel.IsVisible {
		var def defs.DefenderDefinition
		upgrade, sell := -1, 0
		if d != nil {
			def = g.game.Catalog.Defenders[d.Type]
			upgrade = g.game.Progression.UpgradeCost(d)
			sell = g.game.Progression.SellValue(d)
		}
		g.infoPanel.Draw(screen, d, def, upgrade, sell, st.Coins)
	}
	g.drawNotification(screen, st)
	g.drawOutcome(screen, st)
	g.book.Draw(screen, g.game.Catalog.Achievements, st.UnlockedAchievements)
}

func (g *GameState) drawPlacementPreview(screen *ebiten.Image) {
	x, y := ebiten.CursorPosition()
	cell, ok := g.renderer.ScreenToCell(x, y)
	if !ok {
		return
	}
	if _, occupied := g.game.DefenderAt(cell); occupied {
		return
	}
	clr := color.RGBA{60, 220, 60, 255}
	if err := g.game.CanPlace(g.selectedType, cell); err != nil {
		clr = color.RGBA{220, 60, 60, 255}
	}
	drawCellOutline(screen, cell, clr)
}

func drawCellOutline(screen *ebiten.Image, cell gridmap.Cell, clr color.Color) {
	px := float32(config.FieldOffsetX + float64(cell.X)*config.CellSize)
	py := float32(config.FieldOffsetY + float64(cell.Y)*config.CellSize)
	vector.StrokeRect(screen, px+1, py+1, config.CellSize-2, config.CellSize-2, 2, clr, false)
}

func (g *GameState) drawHUD(screen *ebiten.Image, st *entity.GameState) {
	rules := g.game.Catalog.Rules
	g.livesInd.Draw(screen, uiFont, st.Lives, st.MaxLives)
	g.waveInd.Draw(screen, uiFont, st.Wave, rules.Waves.MaxWave, g.game.WaveSystem.IsBossWave(st.Wave))
	text.Draw(screen, fmt.Sprintf("Coins: %d", st.Coins), uiFont, 240, 28, config.TextLightColor)

	stateColor := config.IdleStateColor
	if st.Playing() {
		stateColor = config.WaveStateColor
	}
	g.indicator.Draw(screen, stateColor)
	g.speedButton.Draw(screen)
	g.pauseButton.Draw(screen)

	// Панель выбора защитника.
	y := config.ScreenHeight - 20
	x := 20
	for i, t := range g.game.Catalog.DefenderOrder {
		def := g.game.Catalog.Defenders[t]
		label := fmt.Sprintf("%d %s %d", i+1, def.Name, def.Cost)
		clr := color.Color(config.TextLightColor)
		switch {
		case !st.UnlockedDefenders[t]:
			clr = color.RGBA{110, 110, 110, 255}
		case t == g.selectedType:
			clr = config.DefenderColors[string(t)]
		}
		text.Draw(screen, label, uiFont, x, y, clr)
		x += (len(label) + 3) * config.TextCharWidth
	}

	g.drawSkill(screen, st, g.meteorBar, defs.SkillMeteor)
	g.drawSkill(screen, st, g.blizzardBar, defs.SkillBlizzard)
}

func (g *GameState) drawSkill(screen *ebiten.Image, st *entity.GameState, bar *ui.SkillBar, id defs.SkillID) {
	def := g.game.Catalog.Skills[id]
	s := st.Skills[id]
	lvl := def.Level(s.Level)
	ready := 1.0
	if lvl.Cooldown > 0 && s.ReadyAt > st.Clock {
		ready = utils.Clamp(1-(s.ReadyAt-st.Clock)/lvl.Cooldown, 0, 1)
	}
	bar.Draw(screen, uiFont, ready, s.Level, def.MaxLevel(), lvl.Cost)
}

func (g *GameState) drawNotification(screen *ebiten.Image, st *entity.GameState) {
	n := st.Notification
	if n == nil || n.ExpiresAt <= st.Clock {
		return
	}
	w := 12 + config.TextCharWidth*max(len(n.Title), len(n.Description))
	x := (config.ScreenWidth - w) / 2
	vector.DrawFilledRect(screen, float32(x), 56, float32(w), 44, color.RGBA{20, 20, 30, 220}, false)
	text.Draw(screen, n.Title, uiFont, x+6, 74, render.ParseHex(n.Color))
	text.Draw(screen, n.Description, uiFont, x+6, 92, config.TextLightColor)
}

func (g *GameState) drawOutcome(screen *ebiten.Image, st *entity.GameState) {
	var msg string
	switch st.Phase {
	case component.PhaseVictory:
		msg = "VICTORY  press N to play again, M for maps"
	case component.PhaseDefeat:
		msg = "DEFEAT  press C to restore checkpoint, N to restart"
	default:
		return
	}
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 128}, false)
	text.Draw(screen, msg, uiFont, (config.ScreenWidth-len(msg)*config.TextCharWidth)/2, config.ScreenHeight/2, color.White)
}

func (g *GameState) Exit() {}
