// internal/defs/loader.go
package defs

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"tower-siege/pkg/gridmap"
)

//go:embed data/*.yaml
var embedded embed.FS

// Catalog holds every static definition the simulation needs.
type Catalog struct {
	Enemies      map[EnemyType]EnemyDefinition
	Defenders    map[DefenderType]DefenderDefinition
	Maps         map[string]*MapDefinition
	Skills       map[SkillID]SkillDefinition
	Achievements []Achievement
	Rules        Rules

	// DefenderOrder and MapOrder keep the file order for menus and bots.
	DefenderOrder []DefenderType
	MapOrder      []string
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded definitions: %w", err)
	}
	return Load(sub)
}

// LoadDir loads definitions from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

func loadYAML(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

// Load reads all definition files from fsys and validates cross references.
func Load(fsys fs.FS) (*Catalog, error) {
	var (
		enemyDefs    []EnemyDefinition
		defenderDefs []DefenderDefinition
		mapDefs      []*MapDefinition
		skillDefs    []SkillDefinition
		c            = &Catalog{}
	)
	if err := loadYAML(fsys, "rules.yaml", &c.Rules); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "enemies.yaml", &enemyDefs); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "defenders.yaml", &defenderDefs); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "maps.yaml", &mapDefs); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "skills.yaml", &skillDefs); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "achievements.yaml", &c.Achievements); err != nil {
		return nil, err
	}

	c.Enemies = make(map[EnemyType]EnemyDefinition, len(enemyDefs))
	for _, def := range enemyDefs {
		if def.LivesCost == 0 {
			def.LivesCost = 1
		}
		c.Enemies[def.Type] = def
	}

	c.Defenders = make(map[DefenderType]DefenderDefinition, len(defenderDefs))
	for _, def := range defenderDefs {
		c.Defenders[def.Type] = def
		c.DefenderOrder = append(c.DefenderOrder, def.Type)
	}

	c.Skills = make(map[SkillID]SkillDefinition, len(skillDefs))
	for _, def := range skillDefs {
		if len(def.Levels) == 0 {
			return nil, fmt.Errorf("skill %s has no levels", def.ID)
		}
		c.Skills[def.ID] = def
	}

	c.Maps = make(map[string]*MapDefinition, len(mapDefs))
	for _, m := range mapDefs {
		if err := c.prepareMap(m); err != nil {
			return nil, fmt.Errorf("map %s: %w", m.ID, err)
		}
		c.Maps[m.ID] = m
		c.MapOrder = append(c.MapOrder, m.ID)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	slog.Debug("definitions loaded",
		"enemies", len(c.Enemies),
		"defenders", len(c.Defenders),
		"maps", len(c.Maps),
		"achievements", len(c.Achievements))
	return c, nil
}

func (c *Catalog) prepareMap(m *MapDefinition) error {
	path, err := gridmap.FromWaypoints(m.Waypoints)
	if err != nil {
		return err
	}
	if err := path.Validate(); err != nil {
		return err
	}
	for _, cell := range path {
		if !cell.InBounds(m.Width, m.Height) {
			return fmt.Errorf("path cell %v outside %dx%d grid", cell, m.Width, m.Height)
		}
	}
	m.Path = path

	if len(m.FlyingWaypoints) > 0 {
		m.FlyingPath, err = gridmap.FromWaypoints(m.FlyingWaypoints)
		if err != nil {
			return fmt.Errorf("flying path: %w", err)
		}
	} else {
		// Летающие враги идут кратчайшим путём по открытой сетке.
		m.FlyingPath = gridmap.AStar(path[0], path[len(path)-1], m.Width, m.Height, nil)
	}
	if err := m.FlyingPath.Validate(); err != nil {
		return fmt.Errorf("flying path: %w", err)
	}

	if len(m.Bosses) == 0 {
		m.Bosses = append([]EnemyType(nil), c.Rules.Waves.DefaultBosses...)
	}
	if m.MiniBoss == "" {
		m.MiniBoss = c.Rules.Waves.DefaultMiniBoss
	}
	return nil
}

func (c *Catalog) validate() error {
	for _, m := range c.Maps {
		for _, b := range append(append([]EnemyType(nil), m.Bosses...), m.MiniBoss) {
			if _, ok := c.Enemies[b]; !ok {
				return fmt.Errorf("map %s references unknown enemy %q", m.ID, b)
			}
		}
		if _, ok := c.Defenders[m.SpecialDefender]; !ok {
			return fmt.Errorf("map %s references unknown defender %q", m.ID, m.SpecialDefender)
		}
	}
	for _, e := range c.Rules.Waves.SpawnTable {
		if _, ok := c.Enemies[e.Type]; !ok {
			return fmt.Errorf("spawn table references unknown enemy %q", e.Type)
		}
	}
	for _, fillers := range [][]EnemyType{c.Rules.Waves.BossFiller, c.Rules.Waves.MiniBossFiller} {
		if len(fillers) == 0 {
			return fmt.Errorf("milestone filler list is empty")
		}
		for _, t := range fillers {
			if _, ok := c.Enemies[t]; !ok {
				return fmt.Errorf("filler references unknown enemy %q", t)
			}
		}
	}
	for _, t := range c.Rules.AlwaysUnlocked {
		if _, ok := c.Defenders[t]; !ok {
			return fmt.Errorf("rules reference unknown defender %q", t)
		}
	}
	for _, id := range []SkillID{SkillMeteor, SkillBlizzard} {
		if _, ok := c.Skills[id]; !ok {
			return fmt.Errorf("skill %s is not defined", id)
		}
	}
	if c.Rules.Waves.MaxWave < 1 || c.Rules.MaxLevel < 1 {
		return fmt.Errorf("max_wave and max_level must be positive")
	}
	return nil
}

// Map returns the map definition or an error for an unknown id.
func (c *Catalog) Map(id string) (*MapDefinition, error) {
	m, ok := c.Maps[id]
	if !ok {
		return nil, fmt.Errorf("unknown map %q", id)
	}
	return m, nil
}
