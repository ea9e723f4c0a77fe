package system

import (
	"math"
	"testing"

	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

func TestEvaluateDoesNotMutate(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 5000

	before := stateJSON(t, st)
	got := f.achievements.Evaluate(st, defs.TriggerTick, AchievementExtra{})
	if got == nil || got.ID != "tycoon" {
		t.Fatalf("Evaluate = %v, want tycoon", got)
	}
	if stateJSON(t, st) != before {
		t.Error("Evaluate changed the state")
	}
	if st.UnlockedAchievements["tycoon"] {
		t.Error("Evaluate recorded the unlock")
	}
}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, "meadow")
	tests := []struct {
		name    string
		trigger defs.Trigger
		setup   func(st *entity.GameState)
		want    string
	}{
		{"tycoon", defs.TriggerTick, func(st *entity.GameState) { st.Coins = 5000 }, "tycoon"},
		{"already unlocked", defs.TriggerTick, func(st *entity.GameState) {
			st.Coins = 5000
			st.UnlockedAchievements["tycoon"] = true
		}, ""},
		{"wrong trigger", defs.TriggerWaveEnd, func(st *entity.GameState) { st.Coins = 5000 }, ""},
		{"deep miner", defs.TriggerTick, func(st *entity.GameState) { st.TotalMined = 10000 }, "deep_miner"},
		{"collector", defs.TriggerTick, func(st *entity.GameState) {
			for _, d := range f.catalog.DefenderOrder {
				st.EverPlaced[d] = true
			}
		}, "collector"},
		{"collector missing one", defs.TriggerTick, func(st *entity.GameState) {
			for _, d := range f.catalog.DefenderOrder[1:] {
				st.EverPlaced[d] = true
			}
		}, ""},
		{"last stand", defs.TriggerWaveEnd, func(st *entity.GameState) {
			st.Lives = 1
		}, "last_stand"},
		{"veteran", defs.TriggerWaveEnd, func(st *entity.GameState) {
			st.Wave = 50
			st.UnlockedAchievements["first_blood"] = true
		}, "veteran"},
		{"ironman lost after restore", defs.TriggerGameWon, func(st *entity.GameState) {
			st.GameWon = true
			st.CheckpointUsed = true
			st.Lives = 3
			st.UnlockedAchievements["minimalist"] = true
		}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := f.state()
			tc.setup(st)
			got := f.achievements.Evaluate(st, tc.trigger, AchievementExtra{})
			switch {
			case tc.want == "" && got != nil:
				t.Errorf("Evaluate = %s, want none", got.ID)
			case tc.want != "" && (got == nil || got.ID != tc.want):
				t.Errorf("Evaluate = %v, want %s", got, tc.want)
			}
		})
	}
}

func TestBossKillTimeOnlyOnBossTrigger(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	extra := AchievementExtra{BossKillTime: 500}

	if env := f.achievements.Env(st, defs.TriggerTick, extra); env.BossKillTime != math.MaxFloat64 {
		t.Errorf("tick env bossKillTime = %v", env.BossKillTime)
	}
	if env := f.achievements.Env(st, defs.TriggerBossKill, extra); env.BossKillTime != 500 {
		t.Errorf("boss env bossKillTime = %v", env.BossKillTime)
	}
}

func TestClearedMapsCountsCurrentWin(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.GameWon = true
	extra := AchievementExtra{ClearedMaps: map[string]bool{"canyon": true, "glacier": true, "volcano": true}}

	env := f.achievements.Env(st, defs.TriggerGameWon, extra)
	if env.ClearedMaps != 4 || env.TotalMaps != 4 {
		t.Fatalf("cleared %d of %d", env.ClearedMaps, env.TotalMaps)
	}
	for _, id := range []string{"flawless", "odd_couple", "ironman", "minimalist"} {
		st.UnlockedAchievements[id] = true
	}
	if got := f.achievements.Evaluate(st, defs.TriggerGameWon, extra); got == nil || got.ID != "conqueror" {
		t.Errorf("Evaluate = %v, want conqueror", got)
	}
}

func TestCheckRecordsEveryMatch(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 5000
	st.TotalMined = 10000

	ctx := f.ctx(0)
	f.achievements.Update(st, ctx)
	if !st.UnlockedAchievements["tycoon"] || !st.UnlockedAchievements["deep_miner"] {
		t.Errorf("unlocked = %v", st.UnlockedAchievements)
	}
	if n := countEvents(ctx, event.AchievementUnlocked); n != 2 {
		t.Errorf("AchievementUnlocked x%d, want 2", n)
	}
	if st.LastUnlockedAchievement != "deep_miner" {
		t.Errorf("last unlocked = %q", st.LastUnlockedAchievement)
	}
	if st.Notification == nil || st.Notification.Title != "Achievement: Deep Miner" {
		t.Errorf("notification = %+v", st.Notification)
	}

	// Повторная проверка ничего не добавляет.
	ctx = f.ctx(0)
	f.achievements.Update(st, ctx)
	if countEvents(ctx, event.AchievementUnlocked) != 0 {
		t.Error("achievement unlocked twice")
	}
}

func TestUpdateSkippedOnDefeat(t *testing.T) {
	f := newFixture(t, "meadow")
	st := f.state()
	st.Coins = 5000
	ctx := f.ctx(0)
	ctx.Defeated = true

	f.achievements.Update(st, ctx)
	if len(st.UnlockedAchievements) != 0 {
		t.Error("achievements checked on the defeat tick")
	}
}

func TestBadConditionFailsToCompile(t *testing.T) {
	f := newFixture(t, "meadow")
	tests := []string{"coins +", "coins + 1", "unknownVar > 1"}
	for _, cond := range tests {
		catalog := *f.catalog
		catalog.Achievements = []defs.Achievement{{ID: "broken", Trigger: defs.TriggerTick, Condition: cond}}
		if _, err := NewAchievementEvaluator(&catalog); err == nil {
			t.Errorf("condition %q compiled", cond)
		}
	}
}
