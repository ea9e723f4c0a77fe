// internal/system/combat.go
package system

import (
	"fmt"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// CombatSystem управляет атакой защитников
type CombatSystem struct {
	catalog *defs.Catalog
	mapDef  *defs.MapDefinition
}

func NewCombatSystem(catalog *defs.Catalog, mapDef *defs.MapDefinition) *CombatSystem {
	return &CombatSystem{catalog: catalog, mapDef: mapDef}
}

// ready — может ли защитник действовать в этом тике.
func (s *CombatSystem) ready(st *entity.GameState, d *component.Defender) bool {
	if d.IsStunned(st.Clock) {
		return false
	}
	return st.Clock-d.LastAttack >= d.AttackSpeed/st.SpeedMultiplier
}

func (s *CombatSystem) Update(st *entity.GameState, ctx *TickContext) {
	ledger := newDamageLedger()
	for i := range st.Defenders {
		d := &st.Defenders[i]
		if !s.ready(st, d) {
			continue
		}
		def := s.catalog.Defenders[d.Type]
		if def.Miner {
			s.mine(st, d)
			continue
		}

		target := s.findTarget(st, d, ledger)
		if target == nil {
			continue
		}
		d.LastAttack = st.Clock
		ctx.Emit(event.DefenderAttacked, event.DefenderAttackedData{DefenderID: d.ID, Type: d.Type})

		dmg := s.DamageAgainst(st, d, target)
		s.hit(st, target, dmg, ledger)

		switch d.Type {
		case defs.DefenderIce:
			if applySlow(target, st.Clock, s.catalog.Rules.Combat.SlowDuration) {
				st.AddFloatingText(target.Position, "SLOWED", component.ColorBlue, s.catalog.Rules.FloatingTextLifetime)
			}
		case defs.DefenderLightning:
			cr := s.catalog.Rules.Combat
			chained := finalDamage(float64(dmg) * cr.ChainRatio)
			for _, e := range chainTargets(st, target, d.Type, ledger, cr) {
				s.hit(st, e, chained, ledger)
			}
		case defs.DefenderStone:
			if !s.catalog.Enemies[target.Type].KnockbackImmune {
				applyKnockback(target, s.catalog.Rules.Combat.KnockbackDistance)
				path := s.mapDef.PathFor(target.IsFlying)
				target.Position.X, target.Position.Y = path.PositionAt(target.PathIndex)
			}
		}
	}
	ledger.apply(st)
	settleDeaths(st, ctx)
}

// mine — добытчик не атакует, а приносит монеты.
func (s *CombatSystem) mine(st *entity.GameState, d *component.Defender) {
	cr := s.catalog.Rules.Combat
	income := cr.MinerBaseIncome + cr.MinerIncomePerLevel*(d.Level-1)
	st.Coins += income
	st.TotalMined += income
	d.LastAttack = st.Clock
	st.AddFloatingText(d.Position(), fmt.Sprintf("+%d", income), component.ColorGold, s.catalog.Rules.FloatingTextLifetime)
}

// findTarget выбирает доступного врага в радиусе, дальше всех прошедшего
// по пути. При равенстве остаётся появившийся раньше.
func (s *CombatSystem) findTarget(st *entity.GameState, d *component.Defender, ledger *damageLedger) *component.Enemy {
	var best *component.Enemy
	pos := d.Position()
	for i := range st.Enemies {
		e := &st.Enemies[i]
		if !targetable(e, d.Type, ledger) {
			continue
		}
		if pos.DistanceTo(e.Position) > d.Range {
			continue
		}
		if best == nil || e.PathIndex > best.PathIndex {
			best = e
		}
	}
	return best
}

// DamageAgainst — урон одного удара с учётом сопротивления и перегрева дракона.
func (s *CombatSystem) DamageAgainst(st *entity.GameState, d *component.Defender, target *component.Enemy) int {
	edef := s.catalog.Enemies[target.Type]
	raw := d.Damage * edef.DamageMultiplier(d.Type)
	if edef.Overheat {
		raw *= overheatFactor(st, target, s.catalog.Rules.Combat)
	}
	return finalDamage(raw)
}

func (s *CombatSystem) hit(st *entity.GameState, e *component.Enemy, dmg int, ledger *damageLedger) {
	ledger.add(e, dmg)
	markHit(e, st.Clock, s.catalog.Rules.Combat.HitFlash)
}
