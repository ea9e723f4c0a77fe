package persistence

import (
	"context"
	"errors"

	"tower-siege/internal/entity"
)

// ErrNotFound is returned when no save exists for the requested key.
var ErrNotFound = errors.New("save not found")

// Progress is the global, map-independent player progress.
type Progress struct {
	UnlockedAchievements map[string]bool `json:"unlockedAchievements"`
	ClearedMaps          map[string]bool `json:"clearedMaps"`
}

// NewProgress returns empty progress with initialised sets.
func NewProgress() Progress {
	return Progress{
		UnlockedAchievements: make(map[string]bool),
		ClearedMaps:          make(map[string]bool),
	}
}

func (p *Progress) normalize() {
	if p.UnlockedAchievements == nil {
		p.UnlockedAchievements = make(map[string]bool)
	}
	if p.ClearedMaps == nil {
		p.ClearedMaps = make(map[string]bool)
	}
}

// Storage defines the interface for data persistence. Game saves are keyed
// by map id; progress is a single global record.
type Storage interface {
	SaveGame(ctx context.Context, st *entity.GameState) error
	LoadGame(ctx context.Context, mapID string) (*entity.GameState, error)
	ClearGame(ctx context.Context, mapID string) error
	SaveProgress(ctx context.Context, p Progress) error
	LoadProgress(ctx context.Context) (Progress, error)
	Close() error
}
