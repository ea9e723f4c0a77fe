// internal/component/status_effect.go
package component

import "math"

// Active reports whether a status window ending at until is still open at now.
func Active(until, now float64) bool {
	return until > now
}

func sqrt(v float64) float64 {
	return math.Sqrt(v)
}
