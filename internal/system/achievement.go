// internal/system/achievement.go
package system

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// AchievementEnv — набор переменных, доступных в условиях достижений.
type AchievementEnv struct {
	Coins          int     `expr:"coins"`
	Lives          int     `expr:"lives"`
	MaxLives       int     `expr:"maxLives"`
	Wave           int     `expr:"wave"`
	TotalMined     int     `expr:"totalMined"`
	PlacedTypes    int     `expr:"placedTypes"`
	DefenderTypes  int     `expr:"defenderTypes"`
	Defenders      int     `expr:"defenders"`
	Warriors       int     `expr:"warriors"`
	Archers        int     `expr:"archers"`
	CheckpointUsed bool    `expr:"checkpointUsed"`
	BossKills      int     `expr:"bossKills"`
	BossKillTime   float64 `expr:"bossKillTime"` // мс, имеет смысл только для boss_kill
	ClearedMaps    int     `expr:"clearedMaps"`
	TotalMaps      int     `expr:"totalMaps"`
	GameWon        bool    `expr:"gameWon"`
}

// AchievementExtra — данные, специфичные для триггера.
type AchievementExtra struct {
	BossKillTime float64
	ClearedMaps  map[string]bool
}

type compiledAchievement struct {
	def     defs.Achievement
	program *vm.Program
}

// AchievementEvaluator проверяет условия каталога на состоянии. Своего
// изменяемого состояния не имеет, можно использовать из разных сессий.
type AchievementEvaluator struct {
	catalog *defs.Catalog
	entries []compiledAchievement
}

// NewAchievementEvaluator компилирует все условия достижений в байткод expr.
func NewAchievementEvaluator(catalog *defs.Catalog) (*AchievementEvaluator, error) {
	a := &AchievementEvaluator{catalog: catalog}
	for _, def := range catalog.Achievements {
		program, err := expr.Compile(def.Condition, expr.Env(AchievementEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("achievement %s: compile %q: %w", def.ID, def.Condition, err)
		}
		a.entries = append(a.entries, compiledAchievement{def: def, program: program})
	}
	return a, nil
}

// Env собирает окружение для вычисления условий.
func (a *AchievementEvaluator) Env(st *entity.GameState, trigger defs.Trigger, extra AchievementExtra) AchievementEnv {
	env := AchievementEnv{
		Coins:          st.Coins,
		Lives:          st.Lives,
		MaxLives:       st.MaxLives,
		Wave:           st.Wave,
		TotalMined:     st.TotalMined,
		PlacedTypes:    len(st.EverPlaced),
		DefenderTypes:  len(a.catalog.Defenders),
		Defenders:      len(st.Defenders),
		Warriors:       st.CountDefenders(defs.DefenderWarrior),
		Archers:        st.CountDefenders(defs.DefenderArcher),
		CheckpointUsed: st.CheckpointUsed,
		BossKills:      st.BossKills,
		BossKillTime:   math.MaxFloat64,
		TotalMaps:      len(a.catalog.Maps),
		GameWon:        st.GameWon,
	}
	if trigger == defs.TriggerBossKill {
		env.BossKillTime = extra.BossKillTime
	}
	cleared := 0
	for id, ok := range extra.ClearedMaps {
		if ok && id != st.MapID {
			cleared++
		}
	}
	if extra.ClearedMaps[st.MapID] || st.GameWon {
		cleared++
	}
	env.ClearedMaps = cleared
	return env
}

// Evaluate возвращает первое ещё не открытое достижение для триггера, чьё
// условие выполнено, или nil. st не изменяется.
func (a *AchievementEvaluator) Evaluate(st *entity.GameState, trigger defs.Trigger, extra AchievementExtra) *defs.Achievement {
	env := a.Env(st, trigger, extra)
	for i := range a.entries {
		entry := &a.entries[i]
		if entry.def.Trigger != trigger || st.UnlockedAchievements[entry.def.ID] {
			continue
		}
		out, err := expr.Run(entry.program, env)
		if err != nil {
			slog.Warn("achievement condition error", "achievement", entry.def.ID, "error", err)
			continue
		}
		if ok, _ := out.(bool); ok {
			def := entry.def
			return &def
		}
	}
	return nil
}

// checkAchievements вызывает Evaluate, пока открываются новые достижения:
// одна проверка даёт не больше одного, а при победе их бывает несколько.
func checkAchievements(st *entity.GameState, ctx *TickContext, trigger defs.Trigger, extra AchievementExtra) {
	if ctx.Achievements == nil {
		return
	}
	ctx.Achievements.check(st, ctx, trigger, extra)
}

func (a *AchievementEvaluator) check(st *entity.GameState, ctx *TickContext, trigger defs.Trigger, extra AchievementExtra) {
	if extra.ClearedMaps == nil {
		extra.ClearedMaps = ctx.ClearedMaps
	}
	for range a.entries {
		unlocked := a.Evaluate(st, trigger, extra)
		if unlocked == nil {
			return
		}
		recordAchievement(st, ctx, unlocked)
	}
}

func recordAchievement(st *entity.GameState, ctx *TickContext, a *defs.Achievement) {
	st.UnlockedAchievements[a.ID] = true
	st.LastUnlockedAchievement = a.ID
	st.Notify("Achievement: "+a.Title, a.Description, a.Icon, component.ColorGold, ctx.Catalog.Rules.NotificationLifetime)
	ctx.Emit(event.AchievementUnlocked, event.AchievementData{ID: a.ID, Title: a.Title, Icon: a.Icon})
	slog.Info("achievement unlocked", "id", a.ID, "map", st.MapID)
}

// Update — проверка по триггеру tick, последний этап тика.
func (a *AchievementEvaluator) Update(st *entity.GameState, ctx *TickContext) {
	if ctx.Defeated {
		return
	}
	checkAchievements(st, ctx, defs.TriggerTick, AchievementExtra{})
}
