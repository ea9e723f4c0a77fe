package system

import (
	"errors"
	"testing"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/event"
)

func TestMeteor(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 200
	id := f.addEnemy(st, defs.EnemyNormal, 1, 3)

	ctx := f.ctx(0)
	if err := f.skills.TriggerMeteor(st, ctx); err != nil {
		t.Fatalf("TriggerMeteor: %v", err)
	}
	e := st.Enemy(id)
	// floor(95 * 0.2)
	if e.HP != 95-19 {
		t.Errorf("hp = %d, want %d", e.HP, 95-19)
	}
	if st.Coins != 50 {
		t.Errorf("coins = %d, want 50", st.Coins)
	}
	if !component.Active(e.BurningUntil, st.Clock) {
		t.Error("enemy not burning")
	}
	if got := st.Skills[defs.SkillMeteor].ReadyAt; got != st.Clock+30000 {
		t.Errorf("readyAt = %v", got)
	}
	if countEvents(ctx, event.SkillTriggered) != 1 {
		t.Error("SkillTriggered not emitted")
	}

	st.Coins = 1000
	if err := f.skills.TriggerMeteor(st, ctx); !errors.Is(err, ErrCooldown) {
		t.Errorf("second meteor: err = %v, want ErrCooldown", err)
	}
	if st.Coins != 1000 {
		t.Error("rejected meteor charged coins")
	}
}

func TestMeteorKillsWeakEnemies(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 150
	f.addEnemy(st, defs.EnemyNormal, 1, 3)
	st.Enemies[0].HP = 5

	ctx := f.ctx(0)
	if err := f.skills.TriggerMeteor(st, ctx); err != nil {
		t.Fatalf("TriggerMeteor: %v", err)
	}
	if len(st.Enemies) != 0 {
		t.Fatalf("enemies = %d after lethal meteor", len(st.Enemies))
	}
	if st.Coins != 9 {
		t.Errorf("coins = %d, want the 9 coin reward", st.Coins)
	}
	if countEvents(ctx, event.EnemyKilled) != 1 {
		t.Error("EnemyKilled not emitted")
	}
}

func TestBlizzard(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 120

	if err := f.skills.TriggerBlizzard(st, f.ctx(0)); err != nil {
		t.Fatalf("TriggerBlizzard: %v", err)
	}
	if st.Coins != 0 || st.BlizzardActiveUntil != st.Clock+3000 {
		t.Errorf("coins %d, blizzard until %v", st.Coins, st.BlizzardActiveUntil)
	}
	if !st.BlizzardActive() {
		t.Error("blizzard not active")
	}
}

func TestSkillRejections(t *testing.T) {
	f := newFixture(t, "meadow")
	tests := []struct {
		name  string
		phase component.Phase
		coins int
		want  error
	}{
		{"idle", component.PhaseIdle, 1000, ErrBadPhase},
		{"paused", component.PhasePaused, 1000, ErrBadPhase},
		{"defeat", component.PhaseDefeat, 1000, ErrBadPhase},
		{"broke", component.PhasePlaying, 149, ErrInsufficientCoins},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := f.state()
			st.Phase = tc.phase
			st.Coins = tc.coins
			before := stateJSON(t, st)
			if err := f.skills.TriggerMeteor(st, f.ctx(0)); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if stateJSON(t, st) != before {
				t.Error("rejected skill changed the state")
			}
		})
	}
}

func TestUpgradeSkill(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 1000

	if err := f.skills.UpgradeSkill(st, defs.SkillMeteor); err != nil {
		t.Fatalf("upgrade to 2: %v", err)
	}
	if st.Coins != 750 || st.Skills[defs.SkillMeteor].Level != 2 {
		t.Errorf("after first upgrade: coins %d level %d", st.Coins, st.Skills[defs.SkillMeteor].Level)
	}
	if err := f.skills.UpgradeSkill(st, defs.SkillMeteor); err != nil {
		t.Fatalf("upgrade to 3: %v", err)
	}
	if st.Coins != 250 {
		t.Errorf("coins = %d, want 250", st.Coins)
	}
	if err := f.skills.UpgradeSkill(st, defs.SkillMeteor); !errors.Is(err, ErrMaxLevel) {
		t.Errorf("upgrade past max: %v", err)
	}

	// Уровень 3 бьёт на 40%.
	id := f.addEnemy(st, defs.EnemyNormal, 1, 3)
	if err := f.skills.TriggerMeteor(st, f.ctx(0)); err != nil {
		t.Fatalf("TriggerMeteor: %v", err)
	}
	if hp := st.Enemy(id).HP; hp != 95-38 {
		t.Errorf("hp = %d, want %d", hp, 95-38)
	}
	if got := st.Skills[defs.SkillMeteor].ReadyAt; got != st.Clock+20000 {
		t.Errorf("level 3 cooldown ends at %v", got)
	}
	if st.Skills[defs.SkillBlizzard].Level != 1 {
		t.Error("blizzard level changed")
	}
}

func TestUnknownSkill(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	if err := f.skills.UpgradeSkill(st, defs.SkillID("earthquake")); !errors.Is(err, ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}
