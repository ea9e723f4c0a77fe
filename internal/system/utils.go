// internal/system/utils.go
package system

import (
	"fmt"
	"math"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/event"
)

// finalDamage округляет урон вниз; положительный удар наносит минимум 1.
func finalDamage(raw float64) int {
	if raw <= 0 {
		return 0
	}
	d := int(math.Floor(raw))
	if d < 1 {
		d = 1 // Минимальный урон 1, если начальный урон был > 0
	}
	return d
}

// damageLedger копит урон фазы боя по id врага: здоровье каждого врага
// меняется один раз, после всех защитников.
type damageLedger struct {
	pending map[int]int
	doomed  map[int]bool
	order   []int
}

func newDamageLedger() *damageLedger {
	return &damageLedger{
		pending: make(map[int]int),
		doomed:  make(map[int]bool),
	}
}

// add записывает урон по e и помечает врага обречённым, когда сумма
// покрывает оставшееся здоровье.
func (l *damageLedger) add(e *component.Enemy, dmg int) {
	if dmg <= 0 {
		return
	}
	if _, seen := l.pending[e.ID]; !seen {
		l.order = append(l.order, e.ID)
	}
	l.pending[e.ID] += dmg
	if e.HP-l.pending[e.ID] <= 0 {
		l.doomed[e.ID] = true
	}
}

func (l *damageLedger) isDoomed(id int) bool {
	return l.doomed[id]
}

// apply вычитает накопленный урон, здоровье не ниже нуля.
func (l *damageLedger) apply(st *entity.GameState) {
	for _, id := range l.order {
		e := st.Enemy(id)
		if e == nil {
			continue
		}
		e.HP -= l.pending[id]
		if e.HP < 0 {
			e.HP = 0
		}
	}
}

// markHit включает вспышку попадания.
func markHit(e *component.Enemy, now, flash float64) {
	e.IsHit = true
	e.HitUntil = now + flash
}

// settleDeaths начисляет награду за каждого погибшего врага один раз и
// убирает его с поля.
func settleDeaths(st *entity.GameState, ctx *TickContext) {
	rules := ctx.Catalog.Rules
	kept := make([]component.Enemy, 0, len(st.Enemies))
	for _, e := range st.Enemies {
		if e.Alive() {
			kept = append(kept, e)
			continue
		}
		st.Coins += e.Reward
		st.AddFloatingText(e.Position, fmt.Sprintf("+%d", e.Reward), component.ColorGold, rules.FloatingTextLifetime)
		ctx.Emit(event.EnemyKilled, event.EnemyData{EnemyID: e.ID, Type: e.Type, Boss: e.IsBoss, Reward: e.Reward})
		if e.IsBoss {
			st.BossKills++
			checkAchievements(st, ctx, defs.TriggerBossKill, AchievementExtra{BossKillTime: st.Clock - e.SpawnedAt})
		}
	}
	st.Enemies = kept
}
