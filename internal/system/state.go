// internal/system/state.go
package system

import (
	"errors"
	"fmt"
	"log/slog"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

var (
	ErrBadPhase     = errors.New("action is not allowed in the current phase")
	ErrNotFound     = errors.New("no such defender")
	ErrMaxLevel     = errors.New("already at max level")
	ErrCooldown     = errors.New("skill is cooling down")
	ErrNoCheckpoint = errors.New("no checkpoint recorded")
	ErrBadSpeed     = errors.New("unsupported speed multiplier")
)

// StateSystem переключает фазы сессии по командам игрока.
type StateSystem struct {
	catalog *defs.Catalog
}

func NewStateSystem(catalog *defs.Catalog) *StateSystem {
	return &StateSystem{catalog: catalog}
}

// StartWave переводит Idle в Playing. Сбрасываются только счётчики
// появления, монеты и защитники остаются.
func (s *StateSystem) StartWave(st *entity.GameState, ctx *TickContext) error {
	if st.Phase != component.PhaseIdle {
		return fmt.Errorf("%w: start in %s", ErrBadPhase, st.Phase)
	}
	st.Phase = component.PhasePlaying
	st.SpawnedThisWave = 0
	st.SpawnTimer = 0
	ctx.Emit(event.WaveStarted, event.WaveData{Wave: st.Wave})
	slog.Debug("wave started", "map", st.MapID, "wave", st.Wave)
	return nil
}

func (s *StateSystem) Pause(st *entity.GameState) error {
	if st.Phase != component.PhasePlaying {
		return fmt.Errorf("%w: pause in %s", ErrBadPhase, st.Phase)
	}
	st.Phase = component.PhasePaused
	return nil
}

// Resume только меняет фазу; отсчёт времени сбрасывает драйвер.
func (s *StateSystem) Resume(st *entity.GameState) error {
	if st.Phase != component.PhasePaused {
		return fmt.Errorf("%w: resume in %s", ErrBadPhase, st.Phase)
	}
	st.Phase = component.PhasePlaying
	return nil
}

// SetSpeed выбирает один из настроенных множителей скорости.
func (s *StateSystem) SetSpeed(st *entity.GameState, multiplier float64) error {
	for _, m := range s.catalog.Rules.SpeedMultipliers {
		if m == multiplier {
			st.SpeedMultiplier = multiplier
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrBadSpeed, multiplier)
}

// NextSpeed — следующий множитель скорости по кругу.
func (s *StateSystem) NextSpeed(st *entity.GameState) float64 {
	speeds := s.catalog.Rules.SpeedMultipliers
	if len(speeds) == 0 {
		return st.SpeedMultiplier
	}
	for i, m := range speeds {
		if m == st.SpeedMultiplier {
			st.SpeedMultiplier = speeds[(i+1)%len(speeds)]
			return st.SpeedMultiplier
		}
	}
	st.SpeedMultiplier = speeds[0]
	return st.SpeedMultiplier
}
