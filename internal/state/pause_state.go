// internal/state/pause_state.go
package state

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tower-siege/internal/config"
)

// Убеждаемся, что PauseState соответствует интерфейсу State
var _ State = (*PauseState)(nil)

// PauseState рисует игру под затемнением; симуляция стоит.
type PauseState struct {
	stateMachine  *StateMachine
	previousState *GameState
}

func NewPauseState(sm *StateMachine, prev *GameState) *PauseState {
	return &PauseState{
		stateMachine:  sm,
		previousState: prev,
	}
}

func (s *PauseState) Enter() {}

func (s *PauseState) Update(deltaTime float64) {
	unpause := inpututil.IsKeyJustPressed(ebiten.KeyP) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if !unpause {
		return
	}
	// Resume может не пройти, если игра уже закончилась.
	s.previousState.Game().Resume()
	s.stateMachine.SetState(s.previousState)
}

func (s *PauseState) Draw(screen *ebiten.Image) {
	s.previousState.Draw(screen)
	vector.DrawFilledRect(screen, 0, 0, config.ScreenWidth, config.ScreenHeight, color.RGBA{0, 0, 0, 128}, false)
	pauseText := "PAUSED"
	text.Draw(screen, pauseText, uiFont, (config.ScreenWidth-len(pauseText)*config.TextCharWidth)/2, config.ScreenHeight/2, color.White)
}

func (s *PauseState) Exit() {}
