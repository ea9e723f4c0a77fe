// internal/defs/maps.go
package defs

import "tower-siege/pkg/gridmap"

// MapDefinition описывает карту: сетку, путь врагов и особые правила.
type MapDefinition struct {
	ID              string         `yaml:"id"`
	Name            string         `yaml:"name"`
	Difficulty      string         `yaml:"difficulty"`
	Width           int            `yaml:"width"`
	Height          int            `yaml:"height"`
	Waypoints       []gridmap.Cell `yaml:"waypoints"`
	FlyingWaypoints []gridmap.Cell `yaml:"flying_waypoints,omitempty"`
	SpecialDefender DefenderType   `yaml:"special_defender"`
	Bosses          []EnemyType    `yaml:"bosses,omitempty"`
	MiniBoss        EnemyType      `yaml:"mini_boss,omitempty"`

	Path       gridmap.Path `yaml:"-"`
	FlyingPath gridmap.Path `yaml:"-"`
}

// PathFor returns the path an enemy follows.
func (m *MapDefinition) PathFor(flying bool) gridmap.Path {
	if flying && len(m.FlyingPath) > 0 {
		return m.FlyingPath
	}
	return m.Path
}
