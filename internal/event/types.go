// internal/event/types.go
package event

import (
	"tower-siege/internal/defs"
	"tower-siege/pkg/gridmap"
)

const (
	WaveStarted         EventType = "WaveStarted"
	WaveEnded           EventType = "WaveEnded" // Волна закончилась
	EnemySpawned        EventType = "EnemySpawned"
	EnemyKilled         EventType = "EnemyKilled" // Враг уничтожен
	EnemyLeaked         EventType = "EnemyLeaked" // Враг дошёл до конца пути
	DefenderAttacked    EventType = "DefenderAttacked"
	DefenderPlaced      EventType = "DefenderPlaced" // Защитник поставлен
	DefenderUpgraded    EventType = "DefenderUpgraded"
	DefenderSold        EventType = "DefenderSold"
	SkillTriggered      EventType = "SkillTriggered"
	AchievementUnlocked EventType = "AchievementUnlocked"
	Notification        EventType = "Notification"
	FloatingText        EventType = "FloatingText"
	CheckpointRecorded  EventType = "CheckpointRecorded"
	CheckpointRestored  EventType = "CheckpointRestored"
	GameWon             EventType = "GameWon"
	GameLost            EventType = "GameLost"
)

// DefenderAttackedData is attached to DefenderAttacked.
type DefenderAttackedData struct {
	DefenderID int               `json:"defenderId"`
	Type       defs.DefenderType `json:"type"`
}

// DefenderData is attached to placement, upgrade and sell events.
type DefenderData struct {
	DefenderID int               `json:"defenderId"`
	Type       defs.DefenderType `json:"type"`
	Cell       gridmap.Cell      `json:"cell"`
	Level      int               `json:"level"`
	Coins      int               `json:"coins"` // cost paid or refund received
}

// EnemyData is attached to spawn, kill and leak events.
type EnemyData struct {
	EnemyID int            `json:"enemyId"`
	Type    defs.EnemyType `json:"type"`
	Boss    bool           `json:"boss"`
	Reward  int            `json:"reward,omitempty"`
}

// WaveData is attached to wave events.
type WaveData struct {
	Wave  int `json:"wave"`
	Bonus int `json:"bonus,omitempty"`
}

// AchievementData is attached to AchievementUnlocked.
type AchievementData struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// SkillData is attached to SkillTriggered.
type SkillData struct {
	Skill defs.SkillID `json:"skill"`
	Level int          `json:"level"`
}
