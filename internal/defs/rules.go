// internal/defs/rules.go
package defs

// SpawnEntry is one row of the weighted spawn table used by regular waves.
type SpawnEntry struct {
	Type    EnemyType `yaml:"type"`
	Weight  int       `yaml:"weight"`
	MinWave int       `yaml:"min_wave"`
	Maps    []string  `yaml:"maps,omitempty"` // empty means every map
}

// AllowedOn reports whether the entry may spawn on the map at the wave.
func (e SpawnEntry) AllowedOn(mapID string, wave int) bool {
	if wave < e.MinWave {
		return false
	}
	if len(e.Maps) == 0 {
		return true
	}
	for _, m := range e.Maps {
		if m == mapID {
			return true
		}
	}
	return false
}

// WaveRules configures the wave scheduler.
type WaveRules struct {
	MaxWave             int          `yaml:"max_wave"`
	MiniBossWave        int          `yaml:"mini_boss_wave"`
	BaseEnemies         int          `yaml:"base_enemies"`
	EnemiesPerWave      int          `yaml:"enemies_per_wave"`
	MiniBossFiller      []EnemyType  `yaml:"mini_boss_filler"`
	MiniBossFillerCount int          `yaml:"mini_boss_filler_count"`
	BossFiller          []EnemyType  `yaml:"boss_filler"`
	BossFillerCount     int          `yaml:"boss_filler_count"`
	DefaultBosses       []EnemyType  `yaml:"default_bosses"`
	DefaultMiniBoss     EnemyType    `yaml:"default_mini_boss"`
	SpawnIntervalBase   float64      `yaml:"spawn_interval_base"`
	SpawnIntervalStep   float64      `yaml:"spawn_interval_step"`
	MinSpawnInterval    float64      `yaml:"min_spawn_interval"`
	SpawnTable          []SpawnEntry `yaml:"spawn_table"`
}

// EnemyScaling holds the linear per-wave base stats before type multipliers.
type EnemyScaling struct {
	BaseHP        float64 `yaml:"base_hp"`
	HPPerWave     float64 `yaml:"hp_per_wave"`
	BaseSpeed     float64 `yaml:"base_speed"`
	SpeedPerWave  float64 `yaml:"speed_per_wave"`
	BaseReward    float64 `yaml:"base_reward"`
	RewardPerWave float64 `yaml:"reward_per_wave"`
}

// CombatRules holds the combat resolver tunables.
type CombatRules struct {
	SlowMultiplier      float64 `yaml:"slow_multiplier"`
	SlowDuration        float64 `yaml:"slow_duration"`
	ChainRatio          float64 `yaml:"chain_ratio"`
	ChainTargets        int     `yaml:"chain_targets"`
	ChainRadius         float64 `yaml:"chain_radius"`
	KnockbackDistance   float64 `yaml:"knockback_distance"`
	OverheatRadius      float64 `yaml:"overheat_radius"`
	OverheatStep        float64 `yaml:"overheat_step"`
	OverheatFloor       float64 `yaml:"overheat_floor"`
	HitFlash            float64 `yaml:"hit_flash"`
	MinerBaseIncome     int     `yaml:"miner_base_income"`
	MinerIncomePerLevel int     `yaml:"miner_income_per_level"`
	PhantomTogglePeriod float64 `yaml:"phantom_toggle_period"`
	BurnDuration        float64 `yaml:"burn_duration"`
}

// Rules is the top-level gameplay configuration.
type Rules struct {
	StartingCoins        int                  `yaml:"starting_coins"`
	StartingLives        int                  `yaml:"starting_lives"`
	MaxLevel             int                  `yaml:"max_level"`
	WaveClearBonus       int                  `yaml:"wave_clear_bonus"` // multiplied by the cleared wave
	UpgradeDamageRatio   float64              `yaml:"upgrade_damage_ratio"`
	UpgradeRangeStep     float64              `yaml:"upgrade_range_step"`
	UpgradeSpeedFactor   float64              `yaml:"upgrade_speed_factor"`
	RangeUpgradeTypes    []DefenderType       `yaml:"range_upgrade_types"`
	Checkpoints          []int                `yaml:"checkpoints"`
	AlwaysUnlocked       []DefenderType       `yaml:"always_unlocked"`
	CheckpointUnlocks    map[DefenderType]int `yaml:"checkpoint_unlocks"`
	SpecialUnlockWave    int                  `yaml:"special_unlock_wave"`
	FloatingTextLifetime float64              `yaml:"floating_text_lifetime"`
	NotificationLifetime float64              `yaml:"notification_lifetime"`
	ScreenFlashDuration  float64              `yaml:"screen_flash_duration"`
	SpeedMultipliers     []float64            `yaml:"speed_multipliers"`

	Scaling EnemyScaling `yaml:"scaling"`
	Waves   WaveRules    `yaml:"waves"`
	Combat  CombatRules  `yaml:"combat"`
}

// IsCheckpoint reports whether the wave is a checkpoint milestone.
func (r Rules) IsCheckpoint(wave int) bool {
	for _, w := range r.Checkpoints {
		if w == wave {
			return true
		}
	}
	return false
}

// UpgradesRange reports whether upgrades widen the defender's range.
func (r Rules) UpgradesRange(t DefenderType) bool {
	for _, rt := range r.RangeUpgradeTypes {
		if rt == t {
			return true
		}
	}
	return false
}
