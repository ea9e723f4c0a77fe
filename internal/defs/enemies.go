// internal/defs/enemies.go
package defs

// ImmunityPhase maps a band of remaining health to the defender type the
// enemy ignores while in that band. Phases are checked top to bottom; a phase
// matches when hp% > Above (or >= Above when Inclusive).
type ImmunityPhase struct {
	Above     float64      `yaml:"above"`
	Inclusive bool         `yaml:"inclusive"`
	Immune    DefenderType `yaml:"immune"`
}

// EnemyDefinition holds all the static data for a specific type of enemy.
type EnemyDefinition struct {
	Type             EnemyType                `yaml:"type"`
	Name             string                   `yaml:"name"`
	HPMultiplier     float64                  `yaml:"hp_multiplier"`
	SpeedMultiplier  float64                  `yaml:"speed_multiplier"`
	RewardMultiplier float64                  `yaml:"reward_multiplier"`
	Flying           bool                     `yaml:"flying"`
	Boss             bool                     `yaml:"boss"`
	LivesCost        int                      `yaml:"lives_cost"`
	Immunity         DefenderType             `yaml:"immunity,omitempty"`
	ImmunityPhases   []ImmunityPhase          `yaml:"immunity_phases,omitempty"`
	Resist           map[DefenderType]float64 `yaml:"resist,omitempty"`
	KnockbackImmune  bool                     `yaml:"knockback_immune"`
	Invisibility     bool                     `yaml:"invisibility"`
	Overheat         bool                     `yaml:"overheat"`
	HealOnSpawn      int                      `yaml:"heal_on_spawn"`
	StealCoins       int                      `yaml:"steal_coins"`
	Stun             *StunDef                 `yaml:"stun,omitempty"`
}

// StunDef describes the pulse a stunner enemy emits against defenders.
type StunDef struct {
	Radius   float64 `yaml:"radius"`
	Duration float64 `yaml:"duration"` // ms
	Cooldown float64 `yaml:"cooldown"` // ms
}

// DamageMultiplier returns the resistance factor the enemy applies to damage
// from the given defender type. Unlisted pairs take full damage.
func (d EnemyDefinition) DamageMultiplier(t DefenderType) float64 {
	if m, ok := d.Resist[t]; ok {
		return m
	}
	return 1
}

// ImmunityAt returns the immunity for the given health fraction. Type-locked
// enemies always return their fixed immunity.
func (d EnemyDefinition) ImmunityAt(hpPct float64) DefenderType {
	if len(d.ImmunityPhases) == 0 {
		return d.Immunity
	}
	for _, p := range d.ImmunityPhases {
		if hpPct > p.Above || (p.Inclusive && hpPct >= p.Above) {
			return p.Immune
		}
	}
	return d.ImmunityPhases[len(d.ImmunityPhases)-1].Immune
}

// PhaseBased reports whether immunity is re-derived every tick.
func (d EnemyDefinition) PhaseBased() bool {
	return len(d.ImmunityPhases) > 0
}
