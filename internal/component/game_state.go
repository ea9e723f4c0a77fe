// internal/component/game_state.go
package component

// Phase — фаза игровой сессии.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIdle
	PhasePlaying
	PhasePaused
	PhaseVictory
	PhaseDefeat
)

var phaseNames = map[Phase]string{
	PhaseLoading: "loading",
	PhaseIdle:    "idle",
	PhasePlaying: "playing",
	PhasePaused:  "paused",
	PhaseVictory: "victory",
	PhaseDefeat:  "defeat",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// Over reports whether the session reached a terminal outcome.
func (p Phase) Over() bool {
	return p == PhaseVictory || p == PhaseDefeat
}
