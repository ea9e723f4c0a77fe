// internal/system/wave.go
package system

import (
	"math"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
	"tower-siege/internal/utils"
)

// WaveSystem решает, кого и когда выпускать, и создаёт врагов.
type WaveSystem struct {
	catalog *defs.Catalog
	mapDef  *defs.MapDefinition
	factory *Factory
}

func NewWaveSystem(catalog *defs.Catalog, mapDef *defs.MapDefinition, factory *Factory) *WaveSystem {
	return &WaveSystem{catalog: catalog, mapDef: mapDef, factory: factory}
}

func (s *WaveSystem) IsBossWave(wave int) bool {
	return wave == s.catalog.Rules.Waves.MaxWave
}

func (s *WaveSystem) IsMiniBossWave(wave int) bool {
	return wave == s.catalog.Rules.Waves.MiniBossWave && !s.IsBossWave(wave)
}

// EnemiesPerWave — сколько всего врагов появится за волну.
func (s *WaveSystem) EnemiesPerWave(wave int) int {
	wr := s.catalog.Rules.Waves
	switch {
	case s.IsBossWave(wave):
		return len(s.mapDef.Bosses) + wr.BossFillerCount
	case s.IsMiniBossWave(wave):
		return 1 + wr.MiniBossFillerCount
	}
	return wr.BaseEnemies + wr.EnemiesPerWave*wave
}

// NextEnemyType — тип очередного врага волны. Особые волны детерминированы,
// обычные тянут из таблицы появления карты.
func (s *WaveSystem) NextEnemyType(wave, spawnedCount int, rng utils.Random) defs.EnemyType {
	wr := s.catalog.Rules.Waves
	switch {
	case s.IsBossWave(wave):
		if spawnedCount < len(s.mapDef.Bosses) {
			return s.mapDef.Bosses[spawnedCount]
		}
		i := spawnedCount - len(s.mapDef.Bosses)
		return wr.BossFiller[i%len(wr.BossFiller)]
	case s.IsMiniBossWave(wave):
		if spawnedCount == 0 {
			return s.mapDef.MiniBoss
		}
		return wr.MiniBossFiller[(spawnedCount-1)%len(wr.MiniBossFiller)]
	}

	pool := make([]defs.SpawnEntry, 0, len(wr.SpawnTable))
	for _, e := range wr.SpawnTable {
		if e.AllowedOn(s.mapDef.ID, wave) {
			pool = append(pool, e)
		}
	}
	if t := utils.ChooseWeighted(rng, pool); t != "" {
		return t
	}
	return defs.EnemyNormal
}

// SpawnInterval — пауза между появлениями, мс.
func (s *WaveSystem) SpawnInterval(wave int) float64 {
	wr := s.catalog.Rules.Waves
	return math.Max(wr.MinSpawnInterval, wr.SpawnIntervalBase-wr.SpawnIntervalStep*float64(wave))
}

// Update двигает таймер появления, не больше одного врага за тик.
// Во время метели таймер стоит.
func (s *WaveSystem) Update(st *entity.GameState, ctx *TickContext) {
	if st.SpawnedThisWave >= s.EnemiesPerWave(st.Wave) {
		return
	}
	if st.BlizzardActive() {
		return
	}
	st.SpawnTimer += ctx.Delta * st.SpeedMultiplier
	if st.SpawnTimer < s.SpawnInterval(st.Wave) {
		return
	}
	st.SpawnTimer = 0
	t := s.NextEnemyType(st.Wave, st.SpawnedThisWave, ctx.Rng)
	s.Spawn(st, ctx, t)
	st.SpawnedThisWave++
}

// Spawn создаёт врага типа t в начале его пути.
func (s *WaveSystem) Spawn(st *entity.GameState, ctx *TickContext, t defs.EnemyType) *component.Enemy {
	e := s.factory.CreateEnemy(t, st.Wave)
	e.ID = st.NewEntity()
	e.SpawnedAt = st.Clock

	def := s.catalog.Enemies[t]
	if def.HealOnSpawn > 0 {
		s.globalHeal(st, ctx, def.HealOnSpawn)
	}

	st.Enemies = append(st.Enemies, e)
	ctx.Emit(event.EnemySpawned, event.EnemyData{EnemyID: e.ID, Type: t, Boss: e.IsBoss})
	return &st.Enemies[len(st.Enemies)-1]
}

// globalHeal — лекарь при появлении лечит всех живых врагов.
func (s *WaveSystem) globalHeal(st *entity.GameState, ctx *TickContext, amount int) {
	healed := 0
	for i := range st.Enemies {
		e := &st.Enemies[i]
		if !e.Alive() {
			continue
		}
		e.HP += amount
		if e.HP > e.MaxHP {
			e.HP = e.MaxHP
		}
		e.HealGlow = true
		e.HealedAt = st.Clock
		healed++
	}
	if healed == 0 {
		return
	}
	rules := s.catalog.Rules
	st.Notify("Global Heal", "A healer restored every enemy on the field", "heal", component.ColorGreen, rules.NotificationLifetime)
	ctx.Emit(event.Notification, *st.Notification)
}
