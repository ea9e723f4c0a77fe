package system

import (
	"testing"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/event"
	"tower-siege/pkg/gridmap"
)

// Scenario C.
func TestSlowedEnemyMovesAtThirtyPercent(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	id := f.addEnemy(st, defs.EnemyNormal, 1, 1)
	st.Enemy(id).SlowedUntil = st.Clock + 1000

	f.movement.Update(st, f.ctx(500))
	if got := st.Enemy(id).PathIndex; !almostEqual(got, 1+0.6*0.3*0.5) {
		t.Fatalf("slowed pathIndex = %v, want %v", got, 1+0.6*0.3*0.5)
	}

	st.Clock += 1000
	before := st.Enemy(id).PathIndex
	f.movement.Update(st, f.ctx(500))
	if got := st.Enemy(id).PathIndex - before; !almostEqual(got, 0.3) {
		t.Errorf("advance after slow expired = %v, want 0.3", got)
	}
}

// Scenario D, movement half.
func TestBlizzardFreezesMovement(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	a := f.addEnemy(st, defs.EnemyFast, 3, 2.5)
	b := f.addEnemy(st, defs.EnemyFlying, 3, 0)
	st.BlizzardActiveUntil = st.Clock + 3000

	for _, dt := range []float64{50, 1000, 250} {
		f.movement.Update(st, f.ctx(dt))
	}
	if st.Enemy(a).PathIndex != 2.5 || st.Enemy(b).PathIndex != 0 {
		t.Errorf("enemies moved during blizzard: %v, %v", st.Enemy(a).PathIndex, st.Enemy(b).PathIndex)
	}
	if got := f.movement.EffectiveSpeed(st, st.Enemy(a)); got != 0 {
		t.Errorf("EffectiveSpeed during blizzard = %v", got)
	}
}

func TestMovementInterpolatesPosition(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	id := f.addEnemy(st, defs.EnemyNormal, 1, 4.7)

	f.movement.Update(st, f.ctx(1000)) // +0.6 -> 5.3, past the first corner
	e := st.Enemy(id)
	if !almostEqual(e.Position.X, 5) || !almostEqual(e.Position.Y, 2.3) {
		t.Errorf("position = %+v, want (5, 2.3)", e.Position)
	}
}

func TestEnemyLeakCostsLives(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	f.addEnemy(st, defs.EnemyNormal, 1, 24.9)

	ctx := f.ctx(1000)
	f.movement.Update(st, ctx)
	if st.Lives != 19 {
		t.Errorf("lives = %d, want 19", st.Lives)
	}
	if len(st.Enemies) != 0 {
		t.Errorf("leaked enemy not removed")
	}
	if countEvents(ctx, event.EnemyLeaked) != 1 {
		t.Error("EnemyLeaked not emitted")
	}
	if st.ScreenFlashUntil <= st.Clock {
		t.Error("screen flash not set")
	}
}

func TestThiefStealsCoinsInsteadOfLives(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 60
	f.addEnemy(st, defs.EnemyThief, 5, 24.95)

	f.movement.Update(st, f.ctx(1000))
	if st.Coins != 0 {
		t.Errorf("coins = %d, want 0 (clamped)", st.Coins)
	}
	if st.Lives != 20 {
		t.Errorf("thief cost lives: %d", st.Lives)
	}
	if st.Notification == nil || st.Notification.Title != "Robbed!" {
		t.Errorf("notification = %+v", st.Notification)
	}
}

func TestLeakingBossTriggersDefeat(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Lives = 3
	f.addEnemy(st, defs.EnemyNormal, 20, 2)
	f.addEnemy(st, defs.BossWarrior, 20, 24.99)
	f.addEnemy(st, defs.EnemyNormal, 20, 1)

	ctx := f.ctx(1000)
	f.movement.Update(st, ctx)
	if st.Phase != component.PhaseDefeat || !ctx.Defeated {
		t.Fatalf("phase = %s, defeated = %v", st.Phase, ctx.Defeated)
	}
	if st.Lives != 0 || len(st.Enemies) != 0 {
		t.Errorf("lives = %d, enemies = %d after defeat", st.Lives, len(st.Enemies))
	}
	if countEvents(ctx, event.GameLost) != 1 {
		t.Error("GameLost not emitted")
	}
}

func TestPhaseBossImmunityFollowsHealth(t *testing.T) {
	f := newFixture(t, "glacier")
	tests := []struct {
		typ  defs.EnemyType
		pct  float64
		want defs.DefenderType
	}{
		{defs.BossAssassin, 1, defs.DefenderWarrior},
		{defs.BossAssassin, 0.5, defs.DefenderWarrior},
		{defs.BossAssassin, 0.4, defs.DefenderArcher},
		{defs.BossDemon, 0.9, defs.DefenderWarrior},
		{defs.BossDemon, 0.66, defs.DefenderArcher},
		{defs.BossDemon, 0.4, defs.DefenderArcher},
		{defs.BossDemon, 0.33, defs.DefenderWarrior},
		{defs.BossDemonLord, 0.1, defs.DefenderWarrior},
	}
	for _, tc := range tests {
		st := f.state()
		id := f.addEnemy(st, tc.typ, 7, 1)
		e := st.Enemy(id)
		e.HP = int(float64(e.MaxHP) * tc.pct)

		f.movement.Update(st, f.ctx(50))
		if got := st.Enemy(id).ImmuneTo; got != tc.want {
			t.Errorf("%s at %v%%: immuneTo = %q, want %q", tc.typ, tc.pct*100, got, tc.want)
		}
	}
}

func TestPhantomToggleUsesInjectedRandom(t *testing.T) {
	f := newFixture(t, "glacier")
	st := f.state()
	id := f.addEnemy(st, defs.EnemyPhantom, 10, 1)

	f.rng.floats = []float64{0.0}
	f.movement.Update(st, f.ctx(50))
	if !st.Enemy(id).IsInvisible {
		t.Fatal("draw below dt/period should toggle invisibility")
	}

	f.rng.floats = []float64{0.5}
	f.movement.Update(st, f.ctx(50))
	if !st.Enemy(id).IsInvisible {
		t.Error("draw above dt/period should not toggle")
	}
}

func TestStunnerPulseStunsNearbyDefenders(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	near := f.addDefender(st, defs.DefenderWarrior, gridmap.Cell{X: 3, Y: 1})
	far := f.addDefender(st, defs.DefenderArcher, gridmap.Cell{X: 3, Y: 4})
	id := f.addEnemy(st, defs.EnemyStunner, 8, 3)

	f.movement.Update(st, f.ctx(50))
	if got := st.Defender(near).StunnedUntil; got != st.Clock+2000 {
		t.Errorf("near defender stunnedUntil = %v, want %v", got, st.Clock+2000)
	}
	if st.Defender(far).StunnedUntil != 0 {
		t.Error("far defender stunned")
	}
	if got := st.Enemy(id).NextStunAt; got != st.Clock+5000 {
		t.Errorf("nextStunAt = %v", got)
	}

	// Откат ещё не прошёл — повторного оглушения нет.
	st.Defender(near).StunnedUntil = 0
	st.Clock += 1000
	f.movement.Update(st, f.ctx(50))
	if st.Defender(near).StunnedUntil != 0 {
		t.Error("stunner pulsed during its cooldown")
	}
}

func TestHealGlowClearsOnNextMovementTick(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	id := f.addEnemy(st, defs.EnemyNormal, 1, 1)
	st.Enemy(id).HealGlow = true
	st.Enemy(id).HealedAt = st.Clock

	f.movement.Update(st, f.ctx(50))
	if !st.Enemy(id).HealGlow {
		t.Fatal("glow cleared in the tick that set it")
	}
	st.Clock += 50
	f.movement.Update(st, f.ctx(50))
	if st.Enemy(id).HealGlow {
		t.Error("glow survived the next tick")
	}
}

func TestPathIndexNeverDecreasesWhileMoving(t *testing.T) {
	f := newFixture(t, "canyon")
	st := f.state()
	for i := 0; i < 5; i++ {
		id := f.addEnemy(st, defs.EnemyFast, 4, float64(i))
		if i%2 == 0 {
			st.Enemy(id).SlowedUntil = st.Clock + 700
		}
	}
	last := map[int]float64{}
	for tick := 0; tick < 200; tick++ {
		st.Clock += 50
		f.movement.Update(st, f.ctx(50))
		for _, e := range st.Enemies {
			if e.PathIndex < last[e.ID] {
				t.Fatalf("tick %d: enemy %d went back from %v to %v", tick, e.ID, last[e.ID], e.PathIndex)
			}
			if e.HP < 0 || e.HP > e.MaxHP {
				t.Fatalf("enemy %d hp %d out of [0, %d]", e.ID, e.HP, e.MaxHP)
			}
			last[e.ID] = e.PathIndex
		}
	}
}
