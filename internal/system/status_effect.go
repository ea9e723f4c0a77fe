// internal/system/status_effect.go
package system

import (
	"tower-siege/internal/component"
)

// applySlow накладывает замедление, если его ещё нет, и сообщает, наложено ли
// оно. Действующее замедление не продлевается.
func applySlow(e *component.Enemy, now, duration float64) bool {
	if e.IsSlowed(now) {
		return false
	}
	e.SlowedUntil = now + duration
	return true
}

// applyStun продлевает оглушение защитника до until.
func applyStun(d *component.Defender, until float64) {
	if until > d.StunnedUntil {
		d.StunnedUntil = until
	}
}

// applyKnockback отбрасывает врага назад по пути, но не дальше старта.
func applyKnockback(e *component.Enemy, distance float64) {
	e.PathIndex -= distance
	if e.PathIndex < 0 {
		e.PathIndex = 0
	}
}
