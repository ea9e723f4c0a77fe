// internal/system/area_attack.go
package system

import (
	"math"
	"sort"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
)

// overheatFactor — дракон ослабляет урон, если рядом с ним скопились
// защитники: max(floor, 1 - step*count) по защитникам в радиусе.
func overheatFactor(st *entity.GameState, target *component.Enemy, cr defs.CombatRules) float64 {
	count := 0
	for i := range st.Defenders {
		if st.Defenders[i].Position().DistanceTo(target.Position) <= cr.OverheatRadius {
			count++
		}
	}
	return math.Max(cr.OverheatFloor, 1-cr.OverheatStep*float64(count))
}

// chainTargets — до cr.ChainTargets живых врагов рядом с основной целью,
// ближайшие первыми.
func chainTargets(st *entity.GameState, primary *component.Enemy, attacker defs.DefenderType, ledger *damageLedger, cr defs.CombatRules) []*component.Enemy {
	type candidate struct {
		e    *component.Enemy
		dist float64
	}
	var cands []candidate
	for i := range st.Enemies {
		e := &st.Enemies[i]
		if e.ID == primary.ID || !targetable(e, attacker, ledger) {
			continue
		}
		dist := e.Position.DistanceTo(primary.Position)
		if dist <= cr.ChainRadius {
			cands = append(cands, candidate{e: e, dist: dist})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > cr.ChainTargets {
		cands = cands[:cr.ChainTargets]
	}
	out := make([]*component.Enemy, len(cands))
	for i, c := range cands {
		out[i] = c.e
	}
	return out
}

// targetable — может ли защитник данного типа атаковать e.
func targetable(e *component.Enemy, attacker defs.DefenderType, ledger *damageLedger) bool {
	if !e.Alive() || ledger.isDoomed(e.ID) {
		return false
	}
	if e.ImmuneTo != "" && e.ImmuneTo == attacker {
		return false
	}
	return !e.IsInvisible
}
