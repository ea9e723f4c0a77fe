// internal/system/skills.go
package system

import (
	"fmt"
	"math"

	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// SkillSystem применяет глобальные умения игрока.
type SkillSystem struct {
	catalog *defs.Catalog
}

func NewSkillSystem(catalog *defs.Catalog) *SkillSystem {
	return &SkillSystem{catalog: catalog}
}

// prepare проверяет запуск и списывает стоимость.
func (s *SkillSystem) prepare(st *entity.GameState, id defs.SkillID) (defs.SkillLevel, error) {
	def, ok := s.catalog.Skills[id]
	if !ok {
		return defs.SkillLevel{}, fmt.Errorf("%w: skill %q", ErrUnknownType, id)
	}
	if !st.Playing() {
		return defs.SkillLevel{}, fmt.Errorf("%w: %s in %s", ErrBadPhase, id, st.Phase)
	}
	state := st.Skills[id]
	if !state.Ready(st.Clock) {
		return defs.SkillLevel{}, ErrCooldown
	}
	lvl := def.Level(state.Level)
	if st.Coins < lvl.Cost {
		return defs.SkillLevel{}, ErrInsufficientCoins
	}
	st.Coins -= lvl.Cost
	state.ReadyAt = st.Clock + lvl.Cooldown
	st.Skills[id] = state
	return lvl, nil
}

// TriggerMeteor наносит всем живым врагам долю их максимального здоровья.
func (s *SkillSystem) TriggerMeteor(st *entity.GameState, ctx *TickContext) error {
	lvl, err := s.prepare(st, defs.SkillMeteor)
	if err != nil {
		return err
	}
	cr := s.catalog.Rules.Combat
	for i := range st.Enemies {
		e := &st.Enemies[i]
		if !e.Alive() {
			continue
		}
		e.HP -= finalDamage(math.Floor(float64(e.MaxHP) * lvl.DamagePercent))
		if e.HP < 0 {
			e.HP = 0
		}
		e.BurningUntil = st.Clock + cr.BurnDuration
		markHit(e, st.Clock, cr.HitFlash)
	}
	ctx.Emit(event.SkillTriggered, event.SkillData{Skill: defs.SkillMeteor, Level: st.Skills[defs.SkillMeteor].Level})
	settleDeaths(st, ctx)
	return nil
}

// TriggerBlizzard замораживает поле на длительность уровня.
func (s *SkillSystem) TriggerBlizzard(st *entity.GameState, ctx *TickContext) error {
	lvl, err := s.prepare(st, defs.SkillBlizzard)
	if err != nil {
		return err
	}
	st.BlizzardActiveUntil = st.Clock + lvl.Duration
	ctx.Emit(event.SkillTriggered, event.SkillData{Skill: defs.SkillBlizzard, Level: st.Skills[defs.SkillBlizzard].Level})
	return nil
}

// UpgradeSkill покупает следующий уровень умения.
func (s *SkillSystem) UpgradeSkill(st *entity.GameState, id defs.SkillID) error {
	def, ok := s.catalog.Skills[id]
	if !ok {
		return fmt.Errorf("%w: skill %q", ErrUnknownType, id)
	}
	if st.Phase.Over() {
		return ErrGameOver
	}
	state := st.Skills[id]
	if state.Level >= def.MaxLevel() {
		return ErrMaxLevel
	}
	cost := def.Level(state.Level + 1).UpgradeCost
	if st.Coins < cost {
		return ErrInsufficientCoins
	}
	st.Coins -= cost
	state.Level++
	st.Skills[id] = state
	return nil
}
