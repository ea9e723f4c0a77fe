// internal/component/defender.go
package component

import (
	"tower-siege/internal/defs"
	"tower-siege/pkg/gridmap"
)

// Defender — защитник, стоящий на клетке сетки.
type Defender struct {
	ID           int               `json:"id"`
	Type         defs.DefenderType `json:"type"`
	Cell         gridmap.Cell      `json:"cell"`
	Damage       float64           `json:"damage"`
	Range        float64           `json:"range"`
	AttackSpeed  float64           `json:"attackSpeed"` // ms between attacks
	LastAttack   float64           `json:"lastAttack"`
	Level        int               `json:"level"`
	StunnedUntil float64           `json:"stunnedUntil"`
}

// Position returns the centre of the defender's cell.
func (d *Defender) Position() Position {
	return Position{X: float64(d.Cell.X), Y: float64(d.Cell.Y)}
}

// IsStunned reports whether a stun window covers now.
func (d *Defender) IsStunned(now float64) bool {
	return Active(d.StunnedUntil, now)
}
