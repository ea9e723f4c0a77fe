// internal/app/game.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tower-siege/internal/component"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/internal/persistence"
	"tower-siege/internal/system"
	"tower-siege/internal/utils"
)

// Options configures a map session.
type Options struct {
	Catalog *defs.Catalog
	MapID   string
	Seed    int64        // used when Rng is nil
	Rng     utils.Random // overrides Seed, for tests
	Storage persistence.Storage
}

// Game holds one map session: the current snapshot and the systems that
// produce the next one.
type Game struct {
	Catalog         *defs.Catalog
	Map             *defs.MapDefinition
	Factory         *system.Factory
	WaveSystem      *system.WaveSystem
	MovementSystem  *system.MovementSystem
	CombatSystem    *system.CombatSystem
	Progression     *system.ProgressionSystem
	SkillSystem     *system.SkillSystem
	StateSystem     *system.StateSystem
	VisualEffects   *system.VisualEffectSystem
	Achievements    *system.AchievementEvaluator
	EventDispatcher *event.Dispatcher
	Rng             utils.Random

	mu       sync.RWMutex
	state    *entity.GameState
	storage  persistence.Storage
	progress persistence.Progress
	saved    saveKey
}

// NewGame initializes a session for a map, restoring its save when storage
// holds one.
func NewGame(opts Options) (*Game, error) {
	if opts.Catalog == nil {
		panic("catalog cannot be nil")
	}
	mapID := opts.MapID
	if mapID == "" {
		mapID = config.DefaultMapID
	}
	mapDef, err := opts.Catalog.Map(mapID)
	if err != nil {
		return nil, err
	}
	evaluator, err := system.NewAchievementEvaluator(opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("achievements: %w", err)
	}

	rng := opts.Rng
	if rng == nil {
		rng = utils.NewPRNGService(opts.Seed)
	}

	g := &Game{
		Catalog:         opts.Catalog,
		Map:             mapDef,
		Factory:         system.NewFactory(opts.Catalog, mapDef),
		MovementSystem:  system.NewMovementSystem(opts.Catalog, mapDef),
		CombatSystem:    system.NewCombatSystem(opts.Catalog, mapDef),
		SkillSystem:     system.NewSkillSystem(opts.Catalog),
		StateSystem:     system.NewStateSystem(opts.Catalog),
		VisualEffects:   system.NewVisualEffectSystem(),
		Achievements:    evaluator,
		EventDispatcher: event.NewDispatcher(),
		Rng:             rng,
		storage:         opts.Storage,
		progress:        persistence.NewProgress(),
	}
	g.WaveSystem = system.NewWaveSystem(opts.Catalog, mapDef, g.Factory)
	g.Progression = system.NewProgressionSystem(opts.Catalog, mapDef, g.WaveSystem)

	g.state = g.load()
	g.saved = keyOf(g.state)
	return g, nil
}

// NewState returns the default state for the session's map.
func (g *Game) NewState() *entity.GameState {
	rules := g.Catalog.Rules
	st := entity.NewGameState(g.Map.ID, rules.StartingCoins, rules.StartingLives)
	st.UnlockedDefenders = system.DeriveUnlockedDefenders(rules, g.Map, 0)
	for id := range g.progress.UnlockedAchievements {
		st.UnlockedAchievements[id] = true
	}
	return st
}

// load reads progress and the map save. Missing or corrupt data falls back
// to a fresh state; the error never reaches the player.
func (g *Game) load() *entity.GameState {
	if g.storage == nil {
		return g.NewState()
	}
	ctx := context.Background()
	if p, err := g.storage.LoadProgress(ctx); err != nil {
		slog.Warn("progress unavailable, starting empty", "error", err)
	} else {
		g.progress = p
	}

	st, err := g.storage.LoadGame(ctx, g.Map.ID)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			slog.Warn("save unreadable, starting fresh", "map", g.Map.ID, "error", err)
		}
		return g.NewState()
	}
	if st.MapID != g.Map.ID || st.Phase == component.PhaseLoading {
		slog.Warn("save does not match map, starting fresh", "map", g.Map.ID, "saved", st.MapID)
		return g.NewState()
	}
	// Сохранение во время игры — продолжаем с паузы.
	if st.Phase == component.PhasePlaying {
		st.Phase = component.PhasePaused
	}
	for id := range g.progress.UnlockedAchievements {
		st.UnlockedAchievements[id] = true
	}
	slog.Info("save restored", "map", st.MapID, "wave", st.Wave, "coins", st.Coins)
	return st
}

// Snapshot returns the current immutable state.
func (g *Game) Snapshot() *entity.GameState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// ClearedMaps returns a copy of the per-map cleared flags.
func (g *Game) ClearedMaps() map[string]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]bool, len(g.progress.ClearedMaps))
	for k, v := range g.progress.ClearedMaps {
		out[k] = v
	}
	return out
}

func (g *Game) newContext(dt float64) *system.TickContext {
	cleared := make(map[string]bool, len(g.progress.ClearedMaps))
	for k, v := range g.progress.ClearedMaps {
		cleared[k] = v
	}
	return &system.TickContext{
		Catalog:      g.Catalog,
		Map:          g.Map,
		Rng:          g.Rng,
		Achievements: g.Achievements,
		ClearedMaps:  cleared,
		Delta:        dt,
	}
}

// Step advances the simulation by dt milliseconds and returns the new
// snapshot. Paused and loading sessions do not tick; idle and finished
// sessions only let time-stamped effects run out.
func (g *Game) Step(dt float64) *entity.GameState {
	if limit := config.MaxDeltaTime * 1000; dt > limit {
		dt = limit
	}
	if dt < 0 {
		dt = 0
	}

	g.mu.Lock()
	cur := g.state
	if cur.Phase == component.PhasePaused || cur.Phase == component.PhaseLoading {
		g.mu.Unlock()
		return cur
	}
	st := cur.Clone()
	st.Clock += dt
	ctx := g.newContext(dt)

	g.VisualEffects.Update(st)
	if st.Playing() {
		g.WaveSystem.Update(st, ctx)
		g.MovementSystem.Update(st, ctx)
		if !ctx.Defeated {
			g.CombatSystem.Update(st, ctx)
			g.Progression.Update(st, ctx)
			g.Achievements.Update(st, ctx)
		}
	}
	g.state = st
	g.mu.Unlock()

	g.afterChange(st, ctx)
	return st
}

// afterChange publishes the events of a transition and persists what
// changed. It runs outside the lock so listeners may read snapshots.
func (g *Game) afterChange(st *entity.GameState, ctx *system.TickContext) {
	for _, e := range ctx.Events {
		g.EventDispatcher.Dispatch(e)
	}
	g.persist(st, ctx)
}
