package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/internal/persistence"
	"tower-siege/pkg/gridmap"
)

func newTestGame(t *testing.T, store persistence.Storage) *Game {
	t.Helper()
	catalog, err := defs.Default()
	if err != nil {
		t.Fatalf("defs.Default: %v", err)
	}
	g, err := NewGame(Options{Catalog: catalog, MapID: "meadow", Seed: 7, Storage: store})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func newStore(t *testing.T) *persistence.JSONStore {
	t.Helper()
	store, err := persistence.NewJSONStore(filepath.Join(t.TempDir(), "save.json"))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	return store
}

// brokenStore fails every call.
type brokenStore struct {
	saves int
}

var errBroken = errors.New("disk unavailable")

func (b *brokenStore) SaveGame(context.Context, *entity.GameState) error {
	b.saves++
	return errBroken
}
func (b *brokenStore) LoadGame(context.Context, string) (*entity.GameState, error) {
	return nil, errBroken
}
func (b *brokenStore) ClearGame(context.Context, string) error { return errBroken }
func (b *brokenStore) SaveProgress(context.Context, persistence.Progress) error {
	return errBroken
}
func (b *brokenStore) LoadProgress(context.Context) (persistence.Progress, error) {
	return persistence.Progress{}, errBroken
}
func (b *brokenStore) Close() error { return nil }

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(t, nil)
	st := g.Snapshot()
	if st.Phase != component.PhaseIdle || st.Wave != 1 || st.Coins != 100 || st.Lives != 20 {
		t.Errorf("fresh state: phase %s wave %d coins %d lives %d", st.Phase, st.Wave, st.Coins, st.Lives)
	}
	for _, d := range []defs.DefenderType{defs.DefenderWarrior, defs.DefenderArcher, defs.DefenderMiner} {
		if !st.UnlockedDefenders[d] {
			t.Errorf("%s locked in a fresh session", d)
		}
	}
	if st.UnlockedDefenders[defs.DefenderStone] {
		t.Error("stone unlocked before the first checkpoint")
	}
}

func TestNewGameUnknownMap(t *testing.T) {
	catalog, err := defs.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewGame(Options{Catalog: catalog, MapID: "swamp"}); err == nil {
		t.Error("NewGame accepted an unknown map")
	}
}

func TestStepPhases(t *testing.T) {
	g := newTestGame(t, nil)

	// Idle: time runs, nothing spawns.
	st := g.Step(50)
	if st.Clock != 50 || len(st.Enemies) != 0 {
		t.Errorf("idle step: clock %v, enemies %d", st.Clock, len(st.Enemies))
	}

	if _, ok := g.StartWave(); !ok {
		t.Fatal("StartWave rejected")
	}
	st = g.Step(10000)
	if st.Clock != 300 {
		t.Errorf("clock = %v, want the 250ms clamp applied", st.Clock)
	}
	for i := 0; i < 10; i++ {
		st = g.Step(250)
	}
	if len(st.Enemies) == 0 {
		t.Error("no enemies spawned after 2.8s of play")
	}

	paused, ok := g.Pause()
	if !ok {
		t.Fatal("Pause rejected")
	}
	if got := g.Step(50); got != paused {
		t.Error("paused session ticked")
	}
	if _, ok := g.Resume(); !ok {
		t.Fatal("Resume rejected")
	}
	if got := g.Step(50); got.Clock != paused.Clock+50 {
		t.Errorf("clock after resume = %v", got.Clock)
	}
}

func TestStepPublishesNewSnapshot(t *testing.T) {
	g := newTestGame(t, nil)
	before := g.Snapshot()
	after := g.Step(50)
	if after == before {
		t.Fatal("Step mutated the published snapshot in place")
	}
	if before.Clock != 0 {
		t.Errorf("old snapshot clock changed to %v", before.Clock)
	}
}

func TestRejectedActionKeepsSnapshot(t *testing.T) {
	g := newTestGame(t, nil)
	before := g.Snapshot()

	st, ok := g.PlaceDefender(defs.DefenderWarrior, gridmap.Cell{X: 0, Y: 2})
	if ok {
		t.Fatal("placement on the path accepted")
	}
	if st != before || g.Snapshot() != before {
		t.Error("rejected placement published a new snapshot")
	}
	if _, err := g.Execute(Command{Kind: "dance"}); err == nil {
		t.Error("unknown command accepted")
	}
	if err := g.CanPlace(defs.DefenderStone, gridmap.Cell{X: 1, Y: 1}); err == nil {
		t.Error("CanPlace allowed a locked defender")
	}
}

func TestPlaceUpgradeSell(t *testing.T) {
	g := newTestGame(t, nil)
	var placed, sold int
	g.EventDispatcher.Subscribe(event.DefenderPlaced, event.ListenerFunc(func(event.Event) { placed++ }))
	g.EventDispatcher.Subscribe(event.DefenderSold, event.ListenerFunc(func(event.Event) { sold++ }))

	cell := gridmap.Cell{X: 1, Y: 1}
	if err := g.CanPlace(defs.DefenderWarrior, cell); err != nil {
		t.Fatalf("CanPlace: %v", err)
	}
	if g.Snapshot().Coins != 100 {
		t.Fatal("CanPlace charged coins")
	}
	st, ok := g.PlaceDefender(defs.DefenderWarrior, cell)
	if !ok || st.Coins != 50 {
		t.Fatalf("place: ok %v coins %d", ok, st.Coins)
	}
	d, found := g.DefenderAt(cell)
	if !found {
		t.Fatal("DefenderAt found nothing")
	}
	if st, ok = g.UpgradeDefender(d.ID); !ok || st.Coins != 10 {
		t.Fatalf("upgrade: ok %v coins %d", ok, st.Coins)
	}
	if st, ok = g.SellDefender(d.ID); !ok || st.Coins != 60 {
		t.Fatalf("sell: ok %v coins %d", ok, st.Coins)
	}
	if placed != 1 || sold != 1 {
		t.Errorf("events: placed %d sold %d", placed, sold)
	}
}

func TestSetSpeed(t *testing.T) {
	g := newTestGame(t, nil)
	if st, ok := g.SetSpeed(0); !ok || st.SpeedMultiplier != 2 {
		t.Errorf("cycle: ok %v speed %v", ok, st.SpeedMultiplier)
	}
	if st, ok := g.SetSpeed(3); !ok || st.SpeedMultiplier != 3 {
		t.Errorf("set 3: ok %v speed %v", ok, st.SpeedMultiplier)
	}
	if _, ok := g.SetSpeed(7); ok {
		t.Error("speed 7 accepted")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := newStore(t)
	g := newTestGame(t, store)
	if _, ok := g.PlaceDefender(defs.DefenderArcher, gridmap.Cell{X: 2, Y: 1}); !ok {
		t.Fatal("placement rejected")
	}

	again := newTestGame(t, store)
	st := again.Snapshot()
	if st.Coins != 30 || len(st.Defenders) != 1 || st.Defenders[0].Type != defs.DefenderArcher {
		t.Errorf("restored coins %d defenders %+v", st.Coins, st.Defenders)
	}
}

func TestSaveDuringPlayLoadsPaused(t *testing.T) {
	store := newStore(t)
	g := newTestGame(t, nil)
	st := g.NewState()
	st.Phase = component.PhasePlaying
	st.Wave = 6
	if err := store.SaveGame(context.Background(), st); err != nil {
		t.Fatal(err)
	}

	got := newTestGame(t, store).Snapshot()
	if got.Phase != component.PhasePaused || got.Wave != 6 {
		t.Errorf("loaded phase %s wave %d", got.Phase, got.Wave)
	}
}

func TestSaveForOtherMapIgnored(t *testing.T) {
	store := newStore(t)
	st := entity.NewGameState("canyon", 999, 20)
	if err := store.SaveGame(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	if got := newTestGame(t, store).Snapshot(); got.Coins != 100 {
		t.Errorf("meadow session picked up the canyon save: coins %d", got.Coins)
	}
}

func TestBrokenStorageFallsBack(t *testing.T) {
	store := &brokenStore{}
	g := newTestGame(t, store)
	if st := g.Snapshot(); st.Phase != component.PhaseIdle || st.Coins != 100 {
		t.Fatalf("fallback state: phase %s coins %d", st.Phase, st.Coins)
	}
	if _, ok := g.PlaceDefender(defs.DefenderWarrior, gridmap.Cell{X: 1, Y: 1}); !ok {
		t.Fatal("placement rejected with broken storage")
	}
	if store.saves != 1 {
		t.Errorf("save attempts = %d", store.saves)
	}
}

func TestProgressSurvivesReset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	p := persistence.NewProgress()
	p.UnlockedAchievements["first_blood"] = true
	p.ClearedMaps["canyon"] = true
	if err := store.SaveProgress(ctx, p); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t, store)
	if !g.Snapshot().UnlockedAchievements["first_blood"] {
		t.Error("stored achievement not merged")
	}
	if !g.ClearedMaps()["canyon"] {
		t.Error("cleared maps not loaded")
	}
	if _, ok := g.PlaceDefender(defs.DefenderWarrior, gridmap.Cell{X: 1, Y: 1}); !ok {
		t.Fatal("placement rejected")
	}

	st := g.Reset()
	if len(st.Defenders) != 0 || st.Coins != 100 {
		t.Errorf("reset state: coins %d defenders %d", st.Coins, len(st.Defenders))
	}
	if !st.UnlockedAchievements["first_blood"] {
		t.Error("reset dropped achievements")
	}
	if _, err := store.LoadGame(ctx, "meadow"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("save after reset: %v", err)
	}
}
