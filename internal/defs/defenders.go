// internal/defs/defenders.go
package defs

// DefenderDefinition holds all the static data for a specific type of defender.
type DefenderDefinition struct {
	Type        DefenderType `yaml:"type"`
	Name        string       `yaml:"name"`
	Cost        int          `yaml:"cost"`
	Damage      float64      `yaml:"damage"`
	Range       float64      `yaml:"range"`
	AttackSpeed float64      `yaml:"attack_speed"` // ms between attacks
	UpgradeCost int          `yaml:"upgrade_cost"` // multiplied by the current level
	SellValue   float64      `yaml:"sell_value"`   // multiplied by the current level
	MaxCount    int          `yaml:"max_count"`
	Miner       bool         `yaml:"miner"`
}
