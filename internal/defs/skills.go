// internal/defs/skills.go
package defs

// SkillLevel is the configuration of a global skill at one level.
type SkillLevel struct {
	DamagePercent float64 `yaml:"damage_percent"`
	Duration      float64 `yaml:"duration"` // ms
	Cooldown      float64 `yaml:"cooldown"` // ms
	Cost          int     `yaml:"cost"`
	UpgradeCost   int     `yaml:"upgrade_cost"` // cost to reach this level
}

// SkillDefinition describes a player-triggered skill.
type SkillDefinition struct {
	ID     SkillID      `yaml:"id"`
	Name   string       `yaml:"name"`
	Levels []SkillLevel `yaml:"levels"`
}

// MaxLevel returns the highest configured level.
func (s SkillDefinition) MaxLevel() int {
	return len(s.Levels)
}

// Level returns the configuration for a 1-based level, clamped to range.
func (s SkillDefinition) Level(l int) SkillLevel {
	if l < 1 {
		l = 1
	}
	if l > len(s.Levels) {
		l = len(s.Levels)
	}
	return s.Levels[l-1]
}
