// internal/entity/game_state.go
package entity

import (
	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/pkg/gridmap"
)

// GameState is the single source of truth for one map session. A tick never
// mutates a published GameState; it works on a Clone and publishes that.
type GameState struct {
	MapID    string          `json:"mapId"`
	Clock    float64         `json:"clock"` // simulation time, ms
	Phase    component.Phase `json:"phase"`
	Coins    int             `json:"coins"`
	Wave     int             `json:"wave"`
	Lives    int             `json:"lives"`
	MaxLives int             `json:"maxLives"`
	NextID   int             `json:"nextId"`
	GameWon  bool            `json:"gameWon"`

	Enemies   []component.Enemy    `json:"enemies"`
	Defenders []component.Defender `json:"defenders"`

	SpawnedThisWave int     `json:"spawnedThisWave"`
	SpawnTimer      float64 `json:"spawnTimer"`
	SpeedMultiplier float64 `json:"speedMultiplier"`

	TotalMined           int                        `json:"totalMined"`
	BossKills            int                        `json:"bossKills"`
	UnlockedAchievements map[string]bool            `json:"unlockedAchievements"`
	EverPlaced           map[defs.DefenderType]bool `json:"everPlaced"`
	UnlockedDefenders    map[defs.DefenderType]bool `json:"unlockedDefenders"`

	LastCheckpoint      int                  `json:"lastCheckpoint"`
	CheckpointCoins     int                  `json:"checkpointCoins"`
	CheckpointDefenders []component.Defender `json:"checkpointDefenders"`
	CheckpointUsed      bool                 `json:"checkpointUsed"`

	Skills              map[defs.SkillID]component.SkillState `json:"skills"`
	BlizzardActiveUntil float64                               `json:"blizzardActiveUntil"`

	// Transient presentation state, never persisted.
	LastUnlockedAchievement string                   `json:"-"`
	Notification            *component.Notification  `json:"-"`
	FloatingTexts           []component.FloatingText `json:"-"`
	ScreenFlashUntil        float64                  `json:"-"`
}

// NewGameState creates a fresh session for a map.
func NewGameState(mapID string, coins, lives int) *GameState {
	return &GameState{
		MapID:                mapID,
		Phase:                component.PhaseIdle,
		Coins:                coins,
		Wave:                 1,
		Lives:                lives,
		MaxLives:             lives,
		NextID:               1,
		Enemies:              []component.Enemy{},
		Defenders:            []component.Defender{},
		SpeedMultiplier:      1,
		UnlockedAchievements: make(map[string]bool),
		EverPlaced:           make(map[defs.DefenderType]bool),
		UnlockedDefenders:    make(map[defs.DefenderType]bool),
		CheckpointDefenders:  []component.Defender{},
		Skills: map[defs.SkillID]component.SkillState{
			defs.SkillMeteor:   {Level: 1},
			defs.SkillBlizzard: {Level: 1},
		},
	}
}

// NewEntity allocates the next entity id.
func (s *GameState) NewEntity() int {
	id := s.NextID
	s.NextID++
	return id
}

// Clone returns a deep copy that can be mutated freely.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Enemies = append([]component.Enemy{}, s.Enemies...)
	c.Defenders = append([]component.Defender{}, s.Defenders...)
	c.CheckpointDefenders = append([]component.Defender{}, s.CheckpointDefenders...)
	c.FloatingTexts = append([]component.FloatingText(nil), s.FloatingTexts...)
	c.UnlockedAchievements = copyMap(s.UnlockedAchievements)
	c.EverPlaced = copyMap(s.EverPlaced)
	c.UnlockedDefenders = copyMap(s.UnlockedDefenders)
	c.Skills = copyMap(s.Skills)
	if s.Notification != nil {
		n := *s.Notification
		c.Notification = &n
	}
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Playing reports whether ticks advance the simulation.
func (s *GameState) Playing() bool {
	return s.Phase == component.PhasePlaying
}

// BlizzardActive reports whether the global freeze covers now.
func (s *GameState) BlizzardActive() bool {
	return component.Active(s.BlizzardActiveUntil, s.Clock)
}

// Enemy returns a pointer into the enemy slice, or nil.
func (s *GameState) Enemy(id int) *component.Enemy {
	for i := range s.Enemies {
		if s.Enemies[i].ID == id {
			return &s.Enemies[i]
		}
	}
	return nil
}

// Defender returns a pointer into the defender slice, or nil.
func (s *GameState) Defender(id int) *component.Defender {
	for i := range s.Defenders {
		if s.Defenders[i].ID == id {
			return &s.Defenders[i]
		}
	}
	return nil
}

// DefenderAt returns the defender occupying the cell, or nil.
func (s *GameState) DefenderAt(cell gridmap.Cell) *component.Defender {
	for i := range s.Defenders {
		if s.Defenders[i].Cell == cell {
			return &s.Defenders[i]
		}
	}
	return nil
}

// CountDefenders returns how many defenders of the type are on the field.
func (s *GameState) CountDefenders(t defs.DefenderType) int {
	n := 0
	for _, d := range s.Defenders {
		if d.Type == t {
			n++
		}
	}
	return n
}

// RemoveDefender deletes a defender by id and reports whether it existed.
func (s *GameState) RemoveDefender(id int) bool {
	for i := range s.Defenders {
		if s.Defenders[i].ID == id {
			s.Defenders = append(s.Defenders[:i], s.Defenders[i+1:]...)
			return true
		}
	}
	return false
}

// AddFloatingText queues a floating label at the position.
func (s *GameState) AddFloatingText(pos component.Position, text, color string, lifetime float64) {
	s.FloatingTexts = append(s.FloatingTexts, component.FloatingText{
		ID:        s.NewEntity(),
		Position:  pos,
		Text:      text,
		Color:     color,
		CreatedAt: s.Clock,
		ExpiresAt: s.Clock + lifetime,
	})
}

// Notify replaces the current notification banner.
func (s *GameState) Notify(title, description, icon, color string, lifetime float64) {
	s.Notification = &component.Notification{
		Title:       title,
		Description: description,
		Icon:        icon,
		Color:       color,
		ExpiresAt:   s.Clock + lifetime,
	}
}

// Normalize restores empty collections after decoding a persisted state.
func (s *GameState) Normalize() {
	if s.Enemies == nil {
		s.Enemies = []component.Enemy{}
	}
	if s.Defenders == nil {
		s.Defenders = []component.Defender{}
	}
	if s.CheckpointDefenders == nil {
		s.CheckpointDefenders = []component.Defender{}
	}
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = make(map[string]bool)
	}
	if s.EverPlaced == nil {
		s.EverPlaced = make(map[defs.DefenderType]bool)
	}
	if s.UnlockedDefenders == nil {
		s.UnlockedDefenders = make(map[defs.DefenderType]bool)
	}
	if s.Skills == nil {
		s.Skills = make(map[defs.SkillID]component.SkillState)
	}
	for _, id := range []defs.SkillID{defs.SkillMeteor, defs.SkillBlizzard} {
		if sk := s.Skills[id]; sk.Level < 1 {
			sk.Level = 1
			s.Skills[id] = sk
		}
	}
	if s.SpeedMultiplier <= 0 {
		s.SpeedMultiplier = 1
	}
}
