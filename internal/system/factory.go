// internal/system/factory.go
package system

import (
	"errors"
	"fmt"
	"math"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/pkg/gridmap"
)

// Причины отказа в установке защитника.
var (
	ErrOnPath            = errors.New("cell lies on the enemy path")
	ErrOccupied          = errors.New("cell is already occupied")
	ErrCapacity          = errors.New("defender type is at capacity")
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrLocked            = errors.New("defender type is locked")
	ErrOutOfBounds       = errors.New("cell is outside the map")
	ErrUnknownType       = errors.New("unknown type")
	ErrGameOver          = errors.New("game is over")
)

// Factory создаёт врагов и защитников по определениям каталога.
type Factory struct {
	catalog *defs.Catalog
	mapDef  *defs.MapDefinition
}

func NewFactory(catalog *defs.Catalog, mapDef *defs.MapDefinition) *Factory {
	return &Factory{catalog: catalog, mapDef: mapDef}
}

// CreateEnemy масштабирует базовые параметры по номеру волны и множителям
// типа. id у врага ещё нет.
func (f *Factory) CreateEnemy(t defs.EnemyType, wave int) component.Enemy {
	def := f.catalog.Enemies[t]
	sc := f.catalog.Rules.Scaling
	w := float64(wave)

	hp := int(math.Floor((sc.BaseHP + sc.HPPerWave*w) * def.HPMultiplier))
	if hp < 1 {
		hp = 1
	}
	path := f.mapDef.PathFor(def.Flying)
	x, y := path.PositionAt(0)

	e := component.Enemy{
		Type:      t,
		Position:  component.Position{X: x, Y: y},
		HP:        hp,
		MaxHP:     hp,
		Speed:     (sc.BaseSpeed + sc.SpeedPerWave*w) * def.SpeedMultiplier,
		Reward:    int(math.Floor((sc.BaseReward + sc.RewardPerWave*w) * def.RewardMultiplier)),
		LivesCost: def.LivesCost,
		IsBoss:    def.Boss,
		IsFlying:  def.Flying,
	}
	// Фазовые боссы пересчитывают иммунитет каждый тик.
	if !def.PhaseBased() {
		e.ImmuneTo = def.Immunity
	}
	return e
}

// CreateDefender копирует базовые параметры типа, уровень 1.
func (f *Factory) CreateDefender(t defs.DefenderType, cell gridmap.Cell) (component.Defender, error) {
	def, ok := f.catalog.Defenders[t]
	if !ok {
		return component.Defender{}, fmt.Errorf("%w: defender %q", ErrUnknownType, t)
	}
	return component.Defender{
		Type:        t,
		Cell:        cell,
		Damage:      def.Damage,
		Range:       def.Range,
		AttackSpeed: def.AttackSpeed,
		Level:       1,
	}, nil
}

// PlaceDefender проверяет установку и применяет её к st. При ошибке st
// не меняется.
func (f *Factory) PlaceDefender(st *entity.GameState, ctx *TickContext, t defs.DefenderType, cell gridmap.Cell) (int, error) {
	def, ok := f.catalog.Defenders[t]
	if !ok {
		return 0, fmt.Errorf("%w: defender %q", ErrUnknownType, t)
	}
	if st.Phase.Over() || st.Phase == component.PhaseLoading {
		return 0, ErrGameOver
	}
	if !cell.InBounds(f.mapDef.Width, f.mapDef.Height) {
		return 0, ErrOutOfBounds
	}
	if f.mapDef.Path.Contains(cell) {
		return 0, ErrOnPath
	}
	if st.DefenderAt(cell) != nil {
		return 0, ErrOccupied
	}
	if !st.UnlockedDefenders[t] {
		return 0, ErrLocked
	}
	if def.MaxCount > 0 && st.CountDefenders(t) >= def.MaxCount {
		return 0, ErrCapacity
	}
	if st.Coins < def.Cost {
		return 0, ErrInsufficientCoins
	}

	d, err := f.CreateDefender(t, cell)
	if err != nil {
		return 0, err
	}
	d.ID = st.NewEntity()
	if def.Miner {
		// Первая добыча через полный период.
		d.LastAttack = st.Clock
	} else {
		d.LastAttack = st.Clock - d.AttackSpeed
	}
	st.Coins -= def.Cost
	st.Defenders = append(st.Defenders, d)
	st.EverPlaced[t] = true

	ctx.Emit(event.DefenderPlaced, event.DefenderData{
		DefenderID: d.ID, Type: t, Cell: cell, Level: d.Level, Coins: def.Cost,
	})
	return d.ID, nil
}
