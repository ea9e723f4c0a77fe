// internal/defs/achievements.go
package defs

// Achievement is a static catalog entry. Condition is an expression evaluated
// against the achievement environment when Trigger fires.
type Achievement struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	Hidden      bool    `yaml:"hidden"`
	Trigger     Trigger `yaml:"trigger"`
	Condition   string  `yaml:"condition"`
}
