// internal/state/menu_state.go
package state

import (
	"context"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"tower-siege/internal/app"
	"tower-siege/internal/config"
	"tower-siege/internal/ui"
)

// MenuState — выбор карты.
type MenuState struct {
	sm      *StateMachine
	opts    app.Options
	buttons []*ui.MapButton
	errText string
}

// NewMenuState builds the map list. opts is the template for new sessions;
// its MapID is replaced by the chosen map.
func NewMenuState(sm *StateMachine, opts app.Options) *MenuState {
	return &MenuState{sm: sm, opts: opts}
}

func (m *MenuState) Enter() {
	cleared := map[string]bool{}
	if m.opts.Storage != nil {
		if p, err := m.opts.Storage.LoadProgress(context.Background()); err == nil {
			cleared = p.ClearedMaps
		} else {
			slog.Warn("progress unavailable", "error", err)
		}
	}
	m.buttons = m.buttons[:0]
	for i, id := range m.opts.Catalog.MapOrder {
		rect := image.Rect(config.ScreenWidth/2-160, 160+i*70, config.ScreenWidth/2+160, 216+i*70)
		m.buttons = append(m.buttons, ui.NewMapButton(rect, m.opts.Catalog.Maps[id], cleared[id]))
	}
}

func (m *MenuState) Update(deltaTime float64) {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	for _, b := range m.buttons {
		if !b.IsClicked(x, y) {
			continue
		}
		opts := m.opts
		opts.MapID = b.Map.ID
		gs, err := NewGameState(m.sm, opts)
		if err != nil {
			slog.Error("failed to start map", "map", b.Map.ID, "error", err)
			m.errText = err.Error()
			return
		}
		m.sm.SetState(gs)
		return
	}
}

func (m *MenuState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	title := "Tower Siege"
	text.Draw(screen, title, uiFont, (config.ScreenWidth-len(title)*config.TextCharWidth)/2, 110, config.TextLightColor)
	for _, b := range m.buttons {
		b.Draw(screen, uiFont)
	}
	if m.errText != "" {
		text.Draw(screen, m.errText, uiFont, 40, config.ScreenHeight-40, color.RGBA{255, 80, 80, 255})
	}
}

func (m *MenuState) Exit() {}
