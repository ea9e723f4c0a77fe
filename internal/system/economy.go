// internal/system/economy.go
package system

import (
	"fmt"
	"log/slog"
	"math"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// ProgressionSystem — переходы волн, улучшения, продажа и чекпоинты.
type ProgressionSystem struct {
	catalog *defs.Catalog
	mapDef  *defs.MapDefinition
	waves   *WaveSystem
}

func NewProgressionSystem(catalog *defs.Catalog, mapDef *defs.MapDefinition, waves *WaveSystem) *ProgressionSystem {
	return &ProgressionSystem{catalog: catalog, mapDef: mapDef, waves: waves}
}

// Update закрывает волну, когда все появившиеся враги исчезли.
func (s *ProgressionSystem) Update(st *entity.GameState, ctx *TickContext) {
	if ctx.Defeated || !st.Playing() {
		return
	}
	if len(st.Enemies) > 0 || st.SpawnedThisWave < s.waves.EnemiesPerWave(st.Wave) {
		return
	}
	if st.Wave >= s.catalog.Rules.Waves.MaxWave {
		s.win(st, ctx)
		return
	}
	s.clearWave(st, ctx)
}

func (s *ProgressionSystem) clearWave(st *entity.GameState, ctx *TickContext) {
	rules := s.catalog.Rules
	cleared := st.Wave
	bonus := rules.WaveClearBonus * cleared
	st.Coins += bonus
	st.Wave++
	st.SpawnedThisWave = 0
	st.SpawnTimer = 0
	st.Phase = component.PhaseIdle
	ctx.Emit(event.WaveEnded, event.WaveData{Wave: cleared, Bonus: bonus})

	if rules.IsCheckpoint(st.Wave) {
		s.RecordCheckpoint(st, ctx)
	}
	checkAchievements(st, ctx, defs.TriggerWaveEnd, AchievementExtra{})
}

// win — финальная волна зачищена, номер волны больше не растёт.
func (s *ProgressionSystem) win(st *entity.GameState, ctx *TickContext) {
	st.GameWon = true
	st.Phase = component.PhaseVictory
	if ctx.ClearedMaps != nil {
		ctx.ClearedMaps[st.MapID] = true
	}
	ctx.Emit(event.GameWon, event.WaveData{Wave: st.Wave})
	slog.Info("game won", "map", st.MapID, "lives", st.Lives, "coins", st.Coins)
	checkAchievements(st, ctx, defs.TriggerGameWon, AchievementExtra{})
}

// UpgradeCost — цена следующего уровня, -1 на максимальном.
func (s *ProgressionSystem) UpgradeCost(d *component.Defender) int {
	if d.Level >= s.catalog.Rules.MaxLevel {
		return -1
	}
	return s.catalog.Defenders[d.Type].UpgradeCost * d.Level
}

// UpgradeDefender повышает уровень защитника на один.
func (s *ProgressionSystem) UpgradeDefender(st *entity.GameState, ctx *TickContext, id int) error {
	if st.Phase.Over() {
		return ErrGameOver
	}
	d := st.Defender(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	cost := s.UpgradeCost(d)
	if cost < 0 {
		return ErrMaxLevel
	}
	if st.Coins < cost {
		return ErrInsufficientCoins
	}
	rules := s.catalog.Rules
	def := s.catalog.Defenders[d.Type]

	st.Coins -= cost
	d.Level++
	d.Damage += def.Damage * rules.UpgradeDamageRatio
	if rules.UpgradesRange(d.Type) {
		d.Range += rules.UpgradeRangeStep
	}
	// У добытчика темп не меняется.
	if !def.Miner {
		d.AttackSpeed *= rules.UpgradeSpeedFactor
	}
	ctx.Emit(event.DefenderUpgraded, event.DefenderData{
		DefenderID: d.ID, Type: d.Type, Cell: d.Cell, Level: d.Level, Coins: cost,
	})
	return nil
}

// SellValue — возврат за защитника на текущем уровне.
func (s *ProgressionSystem) SellValue(d *component.Defender) int {
	return int(math.Floor(s.catalog.Defenders[d.Type].SellValue * float64(d.Level)))
}

// SellDefender убирает защитника и возвращает монеты в любой фазе;
// отказ только для неизвестного id.
func (s *ProgressionSystem) SellDefender(st *entity.GameState, ctx *TickContext, id int) error {
	d := st.Defender(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	refund := s.SellValue(d)
	data := event.DefenderData{DefenderID: d.ID, Type: d.Type, Cell: d.Cell, Level: d.Level, Coins: refund}
	st.RemoveDefender(id)
	st.Coins += refund
	ctx.Emit(event.DefenderSold, data)
	return nil
}

// RecordCheckpoint запоминает монеты и защитников на текущей волне.
func (s *ProgressionSystem) RecordCheckpoint(st *entity.GameState, ctx *TickContext) {
	st.LastCheckpoint = st.Wave
	st.CheckpointCoins = st.Coins
	st.CheckpointDefenders = append([]component.Defender{}, st.Defenders...)
	st.UnlockedDefenders = DeriveUnlockedDefenders(s.catalog.Rules, s.mapDef, st.LastCheckpoint)
	ctx.Emit(event.CheckpointRecorded, event.WaveData{Wave: st.Wave})
	st.Notify("Checkpoint", fmt.Sprintf("Progress saved at wave %d", st.Wave), "flag", component.ColorWhite, s.catalog.Rules.NotificationLifetime)
}

// RestoreCheckpoint откатывает к последнему чекпоинту с полными жизнями.
func (s *ProgressionSystem) RestoreCheckpoint(st *entity.GameState, ctx *TickContext) error {
	if st.LastCheckpoint == 0 {
		return ErrNoCheckpoint
	}
	if st.Phase == component.PhaseVictory || st.Phase == component.PhaseLoading {
		return fmt.Errorf("%w: restore in %s", ErrBadPhase, st.Phase)
	}
	st.Wave = st.LastCheckpoint
	st.Coins = st.CheckpointCoins
	st.Defenders = append([]component.Defender{}, st.CheckpointDefenders...)
	for i := range st.Defenders {
		// Старые метки времени могут быть из будущего после отката.
		st.Defenders[i].StunnedUntil = 0
		if st.Defenders[i].LastAttack > st.Clock {
			st.Defenders[i].LastAttack = st.Clock
		}
	}
	st.Enemies = []component.Enemy{}
	st.Lives = st.MaxLives
	st.SpawnedThisWave = 0
	st.SpawnTimer = 0
	st.BlizzardActiveUntil = 0
	st.Phase = component.PhaseIdle
	st.UnlockedDefenders = DeriveUnlockedDefenders(s.catalog.Rules, s.mapDef, st.LastCheckpoint)
	st.CheckpointUsed = true
	ctx.Emit(event.CheckpointRestored, event.WaveData{Wave: st.Wave})
	slog.Info("checkpoint restored", "map", st.MapID, "wave", st.Wave)
	return nil
}

// DeriveUnlockedDefenders — типы защитников, доступные после достижения
// чекпоинта checkpointWave.
func DeriveUnlockedDefenders(rules defs.Rules, mapDef *defs.MapDefinition, checkpointWave int) map[defs.DefenderType]bool {
	out := make(map[defs.DefenderType]bool)
	for _, t := range rules.AlwaysUnlocked {
		out[t] = true
	}
	for t, wave := range rules.CheckpointUnlocks {
		if checkpointWave >= wave {
			out[t] = true
		}
	}
	if mapDef != nil && mapDef.SpecialDefender != "" && checkpointWave >= rules.SpecialUnlockWave {
		out[mapDef.SpecialDefender] = true
	}
	return out
}
