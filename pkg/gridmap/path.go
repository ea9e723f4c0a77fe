// pkg/gridmap/path.go
package gridmap

import (
	"fmt"
	"math"
)

// Path is an ordered list of cells. The first cell is the spawn point and the
// last one is the goal.
type Path []Cell

// Last returns the index of the goal cell as a float path index.
func (p Path) Last() float64 {
	return float64(len(p) - 1)
}

// Contains reports whether the cell is part of the path.
func (p Path) Contains(c Cell) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// PositionAt interpolates the point lying at the fractional index f.
// Indices outside the path are clamped to its ends.
func (p Path) PositionAt(f float64) (x, y float64) {
	if len(p) == 0 {
		return 0, 0
	}
	if f <= 0 {
		return float64(p[0].X), float64(p[0].Y)
	}
	if f >= p.Last() {
		end := p[len(p)-1]
		return float64(end.X), float64(end.Y)
	}
	i := int(math.Floor(f))
	t := f - float64(i)
	from, to := p[i], p[i+1]
	x = float64(from.X) + float64(to.X-from.X)*t
	y = float64(from.Y) + float64(to.Y-from.Y)*t
	return x, y
}

// Validate checks that consecutive cells are grid-adjacent.
func (p Path) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("path must have at least 2 cells, got %d", len(p))
	}
	for i := 1; i < len(p); i++ {
		if d := p[i-1].Manhattan(p[i]); d != 1 {
			return fmt.Errorf("cells %d %v and %d %v are not adjacent (distance %d)", i-1, p[i-1], i, p[i], d)
		}
	}
	return nil
}

// FromWaypoints разворачивает список угловых точек в полный путь по клеткам.
// Consecutive waypoints must share a row or a column.
func FromWaypoints(waypoints []Cell) (Path, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("no waypoints")
	}
	path := Path{waypoints[0]}
	for i := 1; i < len(waypoints); i++ {
		from, to := waypoints[i-1], waypoints[i]
		if from.X != to.X && from.Y != to.Y {
			return nil, fmt.Errorf("waypoints %v and %v are not aligned", from, to)
		}
		step := Cell{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
		for c := from; c != to; {
			c = c.Add(step)
			path = append(path, c)
		}
	}
	return path, nil
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
