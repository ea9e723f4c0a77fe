// internal/component/movement.go
package component

// Position — компонент позиции в координатах сетки (дробных во время движения).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return sqrt(dx*dx + dy*dy)
}
