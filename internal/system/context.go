// internal/system/context.go
package system

import (
	"tower-siege/internal/defs"
	"tower-siege/internal/event"
	"tower-siege/internal/utils"
)

// TickContext — зависимости одного изменения состояния и собранные им
// события. Используется и для тиков, и для действий игрока.
type TickContext struct {
	Catalog      *defs.Catalog
	Map          *defs.MapDefinition
	Rng          utils.Random
	Achievements *AchievementEvaluator
	ClearedMaps  map[string]bool
	Delta        float64 // мс симуляции, покрытые тиком

	Events   []event.Event
	Defeated bool
}

// Emit записывает событие для слоя отображения.
func (c *TickContext) Emit(t event.EventType, data interface{}) {
	c.Events = append(c.Events, event.Event{Type: t, Data: data})
}
