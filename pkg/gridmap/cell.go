// pkg/gridmap/cell.go
package gridmap

import "math"

// Cell — клетка квадратной сетки в целочисленных координатах.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// NeighborDirections lists the 4 orthogonal steps, East first, counter-clockwise.
var NeighborDirections = []Cell{
	{X: 1, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 1},
}

// Add returns the cell shifted by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Manhattan возвращает манхэттенское расстояние между клетками.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Distance returns the Euclidean distance between cell centres.
func (c Cell) Distance(o Cell) float64 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// InBounds reports whether the cell lies on a w×h grid.
func (c Cell) InBounds(w, h int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < w && c.Y < h
}

// Neighbors returns the orthogonal neighbours that lie on a w×h grid.
func (c Cell) Neighbors(w, h int) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range NeighborDirections {
		n := c.Add(d)
		if n.InBounds(w, h) {
			out = append(out, n)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
