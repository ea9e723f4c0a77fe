// internal/component/skill.go
package component

// SkillState tracks the level and cooldown of one global skill.
type SkillState struct {
	Level   int     `json:"level"`
	ReadyAt float64 `json:"readyAt"`
}

// Ready reports whether the cooldown has elapsed.
func (s SkillState) Ready(now float64) bool {
	return now >= s.ReadyAt
}
