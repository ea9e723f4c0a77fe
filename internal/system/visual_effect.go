// internal/system/visual_effect.go
package system

import (
	"tower-siege/internal/entity"
)

// VisualEffectSystem управляет временными визуальными флагами: вспышки урона,
// всплывающий текст, уведомления. У каждого флага свой срок, первый тик
// после него флаг снимает.
type VisualEffectSystem struct{}

func NewVisualEffectSystem() *VisualEffectSystem {
	return &VisualEffectSystem{}
}

func (s *VisualEffectSystem) Update(st *entity.GameState) {
	kept := st.FloatingTexts[:0]
	for _, ft := range st.FloatingTexts {
		if ft.ExpiresAt > st.Clock {
			kept = append(kept, ft)
		}
	}
	st.FloatingTexts = kept
	if st.Notification != nil && st.Notification.ExpiresAt <= st.Clock {
		st.Notification = nil
	}
	for i := range st.Enemies {
		e := &st.Enemies[i]
		if e.IsHit && st.Clock > e.HitUntil {
			e.IsHit = false
		}
	}
}
