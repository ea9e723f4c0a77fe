// internal/defs/types.go
package defs

// EnemyType identifies an enemy variant in the catalog.
type EnemyType string

const (
	EnemyNormal    EnemyType = "normal"
	EnemyFast      EnemyType = "fast"
	EnemyTank      EnemyType = "tank"
	EnemyFlying    EnemyType = "flying"
	EnemyThief     EnemyType = "thief"
	EnemyHealer    EnemyType = "healer"
	EnemyStunner   EnemyType = "stunner"
	EnemyIronGolem EnemyType = "iron_golem"
	EnemyDragon    EnemyType = "dragon"
	EnemyPhantom   EnemyType = "phantom"

	BossWarrior    EnemyType = "boss_warrior"
	BossArcher     EnemyType = "boss_archer"
	BossAssassin   EnemyType = "boss_assassin"
	BossDemon      EnemyType = "boss_demon"
	BossDemonLord  EnemyType = "boss_demon_lord"
	BossIceQueen   EnemyType = "boss_ice_queen"
	BossGolemKing  EnemyType = "boss_golem_king"
	BossDragonLord EnemyType = "boss_dragon_lord"
)

// DefenderType identifies a defender variant in the catalog.
type DefenderType string

const (
	DefenderWarrior   DefenderType = "warrior"
	DefenderArcher    DefenderType = "archer"
	DefenderMiner     DefenderType = "miner"
	DefenderStone     DefenderType = "stone"
	DefenderIce       DefenderType = "ice"
	DefenderLightning DefenderType = "lightning"
)

// SkillID identifies a player-triggered global skill.
type SkillID string

const (
	SkillMeteor   SkillID = "meteor"
	SkillBlizzard SkillID = "blizzard"
)

// Trigger — событие, после которого проверяются достижения.
type Trigger string

const (
	TriggerWaveEnd  Trigger = "wave_end"
	TriggerGameWon  Trigger = "game_won"
	TriggerTick     Trigger = "tick"
	TriggerBossKill Trigger = "boss_kill"
)
