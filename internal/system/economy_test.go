package system

import (
	"errors"
	"testing"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/pkg/gridmap"
)

// runTick drives the combat pipeline the way the session does.
func (f *fixture) runTick(st *entity.GameState, dt float64) *TickContext {
	st.Clock += dt
	ctx := f.ctx(dt)
	f.waves.Update(st, ctx)
	f.movement.Update(st, ctx)
	if !ctx.Defeated {
		f.combat.Update(st, ctx)
		f.progression.Update(st, ctx)
		f.achievements.Update(st, ctx)
	}
	return ctx
}

// Scenario B.
func TestWaveOneClearsIntoWaveTwo(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 100
	// Мощный защитник у входа убивает каждого врага сразу.
	id := f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 1, Y: 1})
	d := st.Defender(id)
	d.Damage = 10000
	d.AttackSpeed = 1

	var ended *TickContext
	for i := 0; i < 2000 && st.Wave == 1; i++ {
		ctx := f.runTick(st, 50)
		if countEvents(ctx, event.WaveEnded) > 0 {
			ended = ctx
		}
	}
	if st.Wave != 2 {
		t.Fatalf("wave = %d after 100s of play", st.Wave)
	}
	// 11 normal enemies at 9 coins each, then the 25 coin clear bonus.
	if st.Coins != 100+11*9+25 {
		t.Errorf("coins = %d, want %d", st.Coins, 100+11*9+25)
	}
	if st.Phase != component.PhaseIdle || st.SpawnedThisWave != 0 || st.SpawnTimer != 0 {
		t.Errorf("phase %s, spawned %d, timer %v after wave clear", st.Phase, st.SpawnedThisWave, st.SpawnTimer)
	}
	if ended == nil {
		t.Fatal("WaveEnded not emitted")
	}
	if !st.UnlockedAchievements["first_blood"] {
		t.Error("first_blood not unlocked on wave end")
	}
	if st.Lives != 20 {
		t.Errorf("lives = %d", st.Lives)
	}
}

func TestWaveDoesNotEndWhileEnemiesRemain(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.SpawnedThisWave = 11
	f.addEnemy(st, defs.EnemyNormal, 1, 3)

	f.progression.Update(st, f.ctx(50))
	if st.Wave != 1 || !st.Playing() {
		t.Errorf("wave ended early: wave %d phase %s", st.Wave, st.Phase)
	}
}

// Scenario F.
func TestFinalWaveVictory(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Wave = 20
	st.SpawnedThisWave = f.waves.EnemiesPerWave(20)
	st.Clock = 500000
	f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 2, Y: 1})
	f.addDefender(st, defs.DefenderArcher, gridmap.Cell{X: 3, Y: 0})
	for _, d := range st.Defenders {
		st.Defender(d.ID).Damage = 100000
	}
	f.addEnemy(st, defs.BossWarrior, 20, 3)
	f.addEnemy(st, defs.BossArcher, 20, 2)
	st.Enemies[0].SpawnedAt = st.Clock - 30000

	ctx := f.ctx(50)
	f.combat.Update(st, ctx)
	f.progression.Update(st, ctx)

	if !st.GameWon || st.Phase != component.PhaseVictory {
		t.Fatalf("gameWon = %v, phase = %s", st.GameWon, st.Phase)
	}
	if st.Wave != 20 {
		t.Errorf("wave = %d, must not advance past the final wave", st.Wave)
	}
	if st.BossKills != 2 {
		t.Errorf("bossKills = %d", st.BossKills)
	}
	if countEvents(ctx, event.GameWon) != 1 {
		t.Error("GameWon not emitted")
	}
	want := []string{"boss_slayer", "speed_killer", "flawless", "odd_couple", "ironman", "minimalist"}
	for _, id := range want {
		if !st.UnlockedAchievements[id] {
			t.Errorf("%s not unlocked", id)
		}
	}
	if st.UnlockedAchievements["conqueror"] {
		t.Error("conqueror unlocked with one map cleared")
	}
	if !ctx.ClearedMaps["meadow"] {
		t.Error("map not marked cleared")
	}
}

func TestUpgradeDefender(t *testing.T) {
	f := newFixture(t, "meadow")
	tests := []struct {
		typ         defs.DefenderType
		cost        int
		damage      float64
		rng         float64
		attackSpeed float64
	}{
		{defs.DefenderWarrior, 40, 37.5, 1.5, 720},
		{defs.DefenderArcher, 50, 22.5, 4, 540},
		{defs.DefenderMiner, 80, 0, 0, 3000},
	}
	for _, tc := range tests {
		st := f.state()
		st.Coins = 1000
		id := f.addDefender(st, tc.typ, gridmap.Cell{X: 0, Y: 0})
		ctx := f.ctx(0)

		if err := f.progression.UpgradeDefender(st, ctx, id); err != nil {
			t.Fatalf("%s: %v", tc.typ, err)
		}
		d := st.Defender(id)
		if st.Coins != 1000-tc.cost {
			t.Errorf("%s: paid %d, want %d", tc.typ, 1000-st.Coins, tc.cost)
		}
		if d.Level != 2 || d.Damage != tc.damage || d.Range != tc.rng || !almostEqual(d.AttackSpeed, tc.attackSpeed) {
			t.Errorf("%s after upgrade: %+v", tc.typ, *d)
		}
		if countEvents(ctx, event.DefenderUpgraded) != 1 {
			t.Errorf("%s: DefenderUpgraded not emitted", tc.typ)
		}
	}
}

func TestUpgradeCostScalesWithLevel(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 1000
	id := f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 0, Y: 0})

	paid := 0
	for lvl := 1; lvl < 5; lvl++ {
		before := st.Coins
		if err := f.progression.UpgradeDefender(st, f.ctx(0), id); err != nil {
			t.Fatalf("upgrade from %d: %v", lvl, err)
		}
		paid += before - st.Coins
		if before-st.Coins != 40*lvl {
			t.Errorf("upgrade from %d cost %d, want %d", lvl, before-st.Coins, 40*lvl)
		}
	}
	if paid != 40*(1+2+3+4) {
		t.Errorf("total paid %d", paid)
	}
}

func TestUpgradeAtMaxLevelIsIdempotent(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 5000
	id := f.addDefender(st, defs.DefenderArcher, gridmap.Cell{X: 0, Y: 0})
	st.Defender(id).Level = f.catalog.Rules.MaxLevel

	before := stateJSON(t, st)
	for i := 0; i < 3; i++ {
		if err := f.progression.UpgradeDefender(st, f.ctx(0), id); !errors.Is(err, ErrMaxLevel) {
			t.Fatalf("err = %v, want ErrMaxLevel", err)
		}
	}
	if after := stateJSON(t, st); after != before {
		t.Error("upgrade at max level changed the state")
	}
}

func TestUpgradeRejections(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 39
	id := f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 0, Y: 0})

	if err := f.progression.UpgradeDefender(st, f.ctx(0), id); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("broke: err = %v", err)
	}
	if err := f.progression.UpgradeDefender(st, f.ctx(0), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
	if st.Defender(id).Level != 1 || st.Coins != 39 {
		t.Error("rejected upgrade changed the state")
	}
}

func TestSellDefender(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	id := f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 0, Y: 0})
	st.Defender(id).Level = 3
	coins := st.Coins

	ctx := f.ctx(0)
	if err := f.progression.SellDefender(st, ctx, id); err != nil {
		t.Fatalf("SellDefender: %v", err)
	}
	if st.Coins != coins+75 {
		t.Errorf("refund = %d, want 75", st.Coins-coins)
	}
	if len(st.Defenders) != 0 {
		t.Error("defender not removed")
	}
	if countEvents(ctx, event.DefenderSold) != 1 {
		t.Error("DefenderSold not emitted")
	}
	if err := f.progression.SellDefender(st, ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("selling twice: err = %v", err)
	}
}

func TestSellDefenderAfterGameOver(t *testing.T) {
	for _, phase := range []component.Phase{component.PhaseVictory, component.PhaseDefeat} {
		t.Run(phase.String(), func(t *testing.T) {
			f := newFixture(t, "meadow")
			st := f.state()
			id := f.addDefender(st, defs.DefenderArcher, gridmap.Cell{X: 0, Y: 0})
			st.Phase = phase
			coins := st.Coins

			if err := f.progression.SellDefender(st, f.ctx(0), id); err != nil {
				t.Fatalf("SellDefender: %v", err)
			}
			if st.Coins != coins+35 || len(st.Defenders) != 0 {
				t.Errorf("coins = %d, defenders = %d; want %d, 0", st.Coins, len(st.Defenders), coins+35)
			}
		})
	}
}

func TestCheckpointRecordAndRestore(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Wave = 4
	st.SpawnedThisWave = f.waves.EnemiesPerWave(4)
	st.Coins = 300
	keep := f.addDefender(st, defs.DefenderArcher, gridmap.Cell{X: 0, Y: 0})

	f.progression.Update(st, f.ctx(50))
	if st.Wave != 5 || st.LastCheckpoint != 5 {
		t.Fatalf("wave %d, checkpoint %d", st.Wave, st.LastCheckpoint)
	}
	if st.CheckpointCoins != 400 || len(st.CheckpointDefenders) != 1 {
		t.Errorf("checkpoint = %d coins, %d defenders", st.CheckpointCoins, len(st.CheckpointDefenders))
	}
	if !st.UnlockedDefenders[defs.DefenderStone] {
		t.Error("stone not unlocked at checkpoint 5")
	}

	// Дальше игра идёт плохо.
	st.Phase = component.PhasePlaying
	st.Wave = 7
	st.Coins = 3
	st.Lives = 2
	st.RemoveDefender(keep)
	f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 1, Y: 0})
	f.addEnemy(st, defs.EnemyFast, 7, 3)

	ctx := f.ctx(0)
	if err := f.progression.RestoreCheckpoint(st, ctx); err != nil {
		t.Fatalf("RestoreCheckpoint: %v", err)
	}
	if st.Wave != 5 || st.Coins != 400 || st.Lives != st.MaxLives {
		t.Errorf("restored wave %d coins %d lives %d", st.Wave, st.Coins, st.Lives)
	}
	if len(st.Defenders) != 1 || st.Defenders[0].ID != keep {
		t.Errorf("defenders = %+v", st.Defenders)
	}
	if len(st.Enemies) != 0 || st.Phase != component.PhaseIdle {
		t.Errorf("enemies %d, phase %s", len(st.Enemies), st.Phase)
	}
	if !st.CheckpointUsed {
		t.Error("checkpointUsed not set")
	}
	if countEvents(ctx, event.CheckpointRestored) != 1 {
		t.Error("CheckpointRestored not emitted")
	}
}

func TestRestoreWithoutCheckpoint(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	if err := f.progression.RestoreCheckpoint(st, f.ctx(0)); !errors.Is(err, ErrNoCheckpoint) {
		t.Errorf("err = %v, want ErrNoCheckpoint", err)
	}
}

func TestDeriveUnlockedDefenders(t *testing.T) {
	f := newFixture(t, "meadow")
	tests := []struct {
		wave int
		want []defs.DefenderType
	}{
		{0, []defs.DefenderType{defs.DefenderWarrior, defs.DefenderArcher, defs.DefenderMiner}},
		{5, []defs.DefenderType{defs.DefenderWarrior, defs.DefenderArcher, defs.DefenderMiner, defs.DefenderStone}},
		{15, []defs.DefenderType{defs.DefenderWarrior, defs.DefenderArcher, defs.DefenderMiner, defs.DefenderStone}},
		{16, []defs.DefenderType{defs.DefenderWarrior, defs.DefenderArcher, defs.DefenderMiner, defs.DefenderStone, defs.DefenderLightning}},
	}
	for _, tc := range tests {
		got := DeriveUnlockedDefenders(f.catalog.Rules, f.mapDef, tc.wave)
		if len(got) != len(tc.want) {
			t.Errorf("wave %d: unlocked %v, want %v", tc.wave, got, tc.want)
			continue
		}
		for _, d := range tc.want {
			if !got[d] {
				t.Errorf("wave %d: %s locked", tc.wave, d)
			}
		}
	}
}

func TestStateTransitions(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Phase = component.PhaseIdle
	st.SpawnedThisWave = 4
	coins := st.Coins

	if err := f.states.Pause(st); !errors.Is(err, ErrBadPhase) {
		t.Errorf("pause while idle: %v", err)
	}
	ctx := f.ctx(0)
	if err := f.states.StartWave(st, ctx); err != nil {
		t.Fatalf("StartWave: %v", err)
	}
	if st.Phase != component.PhasePlaying || st.SpawnedThisWave != 0 || st.Coins != coins {
		t.Errorf("after start: phase %s spawned %d coins %d", st.Phase, st.SpawnedThisWave, st.Coins)
	}
	if err := f.states.StartWave(st, ctx); !errors.Is(err, ErrBadPhase) {
		t.Errorf("double start: %v", err)
	}
	if err := f.states.Pause(st); err != nil || st.Phase != component.PhasePaused {
		t.Fatalf("pause: %v, phase %s", err, st.Phase)
	}
	if err := f.states.Resume(st); err != nil || st.Phase != component.PhasePlaying {
		t.Fatalf("resume: %v, phase %s", err, st.Phase)
	}

	if err := f.states.SetSpeed(st, 3); err != nil || st.SpeedMultiplier != 3 {
		t.Errorf("SetSpeed(3): %v, multiplier %v", err, st.SpeedMultiplier)
	}
	if err := f.states.SetSpeed(st, 4); !errors.Is(err, ErrBadSpeed) {
		t.Errorf("SetSpeed(4): %v", err)
	}
	if got := f.states.NextSpeed(st); got != 1 {
		t.Errorf("NextSpeed after 3 = %v, want 1", got)
	}
}
