// internal/system/movement.go
package system

import (
	"log/slog"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// MovementSystem продвигает врагов по пути и обрабатывает прорывы.
type MovementSystem struct {
	catalog *defs.Catalog
	mapDef  *defs.MapDefinition
}

func NewMovementSystem(catalog *defs.Catalog, mapDef *defs.MapDefinition) *MovementSystem {
	return &MovementSystem{catalog: catalog, mapDef: mapDef}
}

// EffectiveSpeed — скорость врага в клетках пути в секунду с учётом
// замедления, заморозки и скорости игры.
func (s *MovementSystem) EffectiveSpeed(st *entity.GameState, e *component.Enemy) float64 {
	speed := e.Speed * st.SpeedMultiplier
	if e.IsSlowed(st.Clock) {
		speed *= s.catalog.Rules.Combat.SlowMultiplier
	}
	if st.BlizzardActive() {
		speed = 0
	}
	return speed
}

func (s *MovementSystem) Update(st *entity.GameState, ctx *TickContext) {
	now := st.Clock
	kept := make([]component.Enemy, 0, len(st.Enemies))
	for i := range st.Enemies {
		e := st.Enemies[i]
		def := s.catalog.Enemies[e.Type]

		if e.HealGlow && now > e.HealedAt {
			e.HealGlow = false
		}
		if def.PhaseBased() {
			e.ImmuneTo = def.ImmunityAt(e.HPPercent())
		}
		if def.Invisibility {
			s.togglePhantom(&e, ctx)
		}
		if def.Stun != nil {
			s.pulseStun(st, ctx, &e, def.Stun)
		}

		e.PathIndex += s.EffectiveSpeed(st, &e) * ctx.Delta / 1000
		path := s.mapDef.PathFor(e.IsFlying)
		if e.PathIndex >= path.Last() {
			s.leak(st, ctx, &e, def)
			if st.Lives <= 0 {
				s.defeat(st, ctx)
				return
			}
			continue
		}
		e.Position.X, e.Position.Y = path.PositionAt(e.PathIndex)
		kept = append(kept, e)
	}
	st.Enemies = kept
}

// togglePhantom переключает невидимость с вероятностью, пропорциональной
// прошедшему времени (в среднем раз в PhantomTogglePeriod).
func (s *MovementSystem) togglePhantom(e *component.Enemy, ctx *TickContext) {
	period := s.catalog.Rules.Combat.PhantomTogglePeriod
	if period <= 0 {
		return
	}
	if ctx.Rng.Float64() < ctx.Delta/period {
		e.IsInvisible = !e.IsInvisible
	}
}

func (s *MovementSystem) pulseStun(st *entity.GameState, ctx *TickContext, e *component.Enemy, stun *defs.StunDef) {
	now := st.Clock
	if now < e.NextStunAt {
		return
	}
	hit := 0
	for i := range st.Defenders {
		d := &st.Defenders[i]
		if d.Position().DistanceTo(e.Position) > stun.Radius {
			continue
		}
		applyStun(d, now+stun.Duration)
		st.AddFloatingText(d.Position(), "STUNNED", component.ColorPurple, s.catalog.Rules.FloatingTextLifetime)
		hit++
	}
	if hit > 0 {
		e.NextStunAt = now + stun.Cooldown
	}
}

func (s *MovementSystem) leak(st *entity.GameState, ctx *TickContext, e *component.Enemy, def defs.EnemyDefinition) {
	rules := s.catalog.Rules
	ctx.Emit(event.EnemyLeaked, event.EnemyData{EnemyID: e.ID, Type: e.Type, Boss: e.IsBoss})
	if def.StealCoins > 0 {
		stolen := def.StealCoins
		if stolen > st.Coins {
			stolen = st.Coins
		}
		st.Coins -= stolen
		st.Notify("Robbed!", "A thief escaped with your coins", "thief", component.ColorRed, rules.NotificationLifetime)
		ctx.Emit(event.Notification, *st.Notification)
		return
	}
	st.Lives -= e.LivesCost
	st.ScreenFlashUntil = st.Clock + rules.ScreenFlashDuration
}

// defeat сразу завершает сессию, остаток тика не выполняется.
func (s *MovementSystem) defeat(st *entity.GameState, ctx *TickContext) {
	st.Lives = 0
	st.Enemies = []component.Enemy{}
	st.Phase = component.PhaseDefeat
	ctx.Defeated = true
	ctx.Emit(event.GameLost, event.WaveData{Wave: st.Wave})
	slog.Info("game lost", "map", st.MapID, "wave", st.Wave)
}
