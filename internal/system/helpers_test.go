package system

import (
	"encoding/json"
	"testing"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/pkg/gridmap"
)

// scriptedRandom replays fixed draws. When a script runs out Intn returns
// n-1 when last is set (0 otherwise) and Float64 returns 0.99.
type scriptedRandom struct {
	ints   []int
	floats []float64
	last   bool
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	if r.last {
		return n - 1
	}
	return 0
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return 0.99
}

type fixture struct {
	catalog      *defs.Catalog
	mapDef       *defs.MapDefinition
	factory      *Factory
	waves        *WaveSystem
	movement     *MovementSystem
	combat       *CombatSystem
	progression  *ProgressionSystem
	skills       *SkillSystem
	states       *StateSystem
	achievements *AchievementEvaluator
	rng          *scriptedRandom
}

func newFixture(t *testing.T, mapID string) *fixture {
	t.Helper()
	catalog, err := defs.Default()
	if err != nil {
		t.Fatalf("defs.Default: %v", err)
	}
	mapDef, err := catalog.Map(mapID)
	if err != nil {
		t.Fatalf("Map(%q): %v", mapID, err)
	}
	ach, err := NewAchievementEvaluator(catalog)
	if err != nil {
		t.Fatalf("NewAchievementEvaluator: %v", err)
	}
	f := &fixture{
		catalog:      catalog,
		mapDef:       mapDef,
		factory:      NewFactory(catalog, mapDef),
		movement:     NewMovementSystem(catalog, mapDef),
		combat:       NewCombatSystem(catalog, mapDef),
		skills:       NewSkillSystem(catalog),
		states:       NewStateSystem(catalog),
		achievements: ach,
		rng:          &scriptedRandom{},
	}
	f.waves = NewWaveSystem(catalog, mapDef, f.factory)
	f.progression = NewProgressionSystem(catalog, mapDef, f.waves)
	return f
}

// state returns a fresh session in the Playing phase.
func (f *fixture) state() *entity.GameState {
	rules := f.catalog.Rules
	st := entity.NewGameState(f.mapDef.ID, rules.StartingCoins, rules.StartingLives)
	st.UnlockedDefenders = DeriveUnlockedDefenders(rules, f.mapDef, 0)
	st.Phase = component.PhasePlaying
	st.Clock = 100000
	return st
}

func (f *fixture) ctx(dt float64) *TickContext {
	return &TickContext{
		Catalog:      f.catalog,
		Map:          f.mapDef,
		Rng:          f.rng,
		Achievements: f.achievements,
		ClearedMaps:  map[string]bool{},
		Delta:        dt,
	}
}

// addEnemy creates an enemy of type t at the given path index and returns
// its id.
func (f *fixture) addEnemy(st *entity.GameState, t defs.EnemyType, wave int, pathIndex float64) int {
	e := f.factory.CreateEnemy(t, wave)
	e.ID = st.NewEntity()
	e.SpawnedAt = st.Clock
	e.PathIndex = pathIndex
	e.Position.X, e.Position.Y = f.mapDef.PathFor(e.IsFlying).PositionAt(pathIndex)
	st.Enemies = append(st.Enemies, e)
	return e.ID
}

// addDefender puts a ready-to-fire defender on the cell, bypassing the
// placement checks.
func (f *fixture) addDefender(st *entity.GameState, t defs.DefenderType, cell gridmap.Cell) int {
	d, err := f.factory.CreateDefender(t, cell)
	if err != nil {
		panic(err)
	}
	d.ID = st.NewEntity()
	d.LastAttack = st.Clock - d.AttackSpeed
	st.Defenders = append(st.Defenders, d)
	return d.ID
}

func countEvents(ctx *TickContext, t event.EventType) int {
	n := 0
	for _, e := range ctx.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func stateJSON(t *testing.T, st *entity.GameState) string {
	t.Helper()
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
