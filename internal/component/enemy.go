// internal/component/enemy.go
package component

import "tower-siege/internal/defs"

// Enemy — враг, идущий по пути. All timestamps are simulation clock
// milliseconds.
type Enemy struct {
	ID        int            `json:"id"`
	Type      defs.EnemyType `json:"type"`
	Position  Position       `json:"position"`
	HP        int            `json:"hp"`
	MaxHP     int            `json:"maxHp"`
	PathIndex float64        `json:"pathIndex"`
	Speed     float64        `json:"speed"` // path cells per second
	Reward    int            `json:"reward"`
	LivesCost int            `json:"livesCost"`
	IsBoss    bool           `json:"isBoss"`
	IsFlying  bool           `json:"isFlying"`
	SpawnedAt float64        `json:"spawnedAt"`

	IsInvisible  bool              `json:"isInvisible"`
	IsHit        bool              `json:"isHit"`
	HitUntil     float64           `json:"hitUntil"`
	HealGlow     bool              `json:"healGlow"`
	HealedAt     float64           `json:"healedAt"`
	SlowedUntil  float64           `json:"slowedUntil"`
	BurningUntil float64           `json:"burningUntil"`
	NextStunAt   float64           `json:"nextStunAt"`
	ImmuneTo     defs.DefenderType `json:"immuneTo,omitempty"`
}

// HPPercent returns the remaining health fraction in [0, 1].
func (e *Enemy) HPPercent() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return float64(e.HP) / float64(e.MaxHP)
}

// Alive reports whether the enemy still has health.
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// IsSlowed reports whether a slow window covers now.
func (e *Enemy) IsSlowed(now float64) bool {
	return Active(e.SlowedUntil, now)
}
