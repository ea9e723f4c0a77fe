// internal/sim/bot.go
package sim

import (
	"sort"

	"tower-siege/internal/app"
	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/pkg/gridmap"
)

// meteorCrowd — сколько живых врагов нужно, чтобы бот бросил метеор.
const meteorCrowd = 6

// Bot is a greedy player: it spends coins on the best free cell next to
// the path and upgrades when nothing can be placed.
type Bot struct {
	game  *app.Game
	spots []gridmap.Cell // buildable cells, most path coverage first
}

// NewBot ranks the map cells for the game's map.
func NewBot(g *app.Game) *Bot {
	return &Bot{game: g, spots: rankSpots(g.Map)}
}

// rankSpots orders non-path cells by how many path cells lie within
// two cells of them.
func rankSpots(m *defs.MapDefinition) []gridmap.Cell {
	type scored struct {
		cell  gridmap.Cell
		score int
	}
	var cells []scored
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := gridmap.Cell{X: x, Y: y}
			if m.Path.Contains(c) {
				continue
			}
			s := 0
			for _, p := range m.Path {
				if c.Distance(p) <= 2 {
					s++
				}
			}
			if s > 0 {
				cells = append(cells, scored{c, s})
			}
		}
	}
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].score > cells[j].score })
	out := make([]gridmap.Cell, len(cells))
	for i, c := range cells {
		out[i] = c.cell
	}
	return out
}

// Act performs at most a handful of actions for the current snapshot.
func (b *Bot) Act(st *entity.GameState) {
	switch st.Phase {
	case component.PhaseIdle:
		b.spend(st)
		b.game.StartWave()
	case component.PhasePlaying:
		b.spend(st)
		if alive(st) >= meteorCrowd {
			if _, ok := b.game.TriggerMeteor(); !ok {
				b.game.TriggerBlizzard()
			}
		}
	case component.PhaseDefeat:
		if st.LastCheckpoint > 0 && !st.CheckpointUsed {
			b.game.RestoreCheckpoint()
		}
	}
}

func (b *Bot) spend(st *entity.GameState) {
	// Один добытчик окупается за пару волн.
	if st.Wave > 1 && st.CountDefenders(defs.DefenderMiner) == 0 && b.place(st, defs.DefenderMiner) {
		return
	}
	for i := len(b.game.Catalog.DefenderOrder) - 1; i >= 0; i-- {
		t := b.game.Catalog.DefenderOrder[i]
		if t == defs.DefenderMiner || !st.UnlockedDefenders[t] {
			continue
		}
		if b.place(st, t) {
			return
		}
	}
	b.upgradeCheapest(st)
}

func (b *Bot) place(st *entity.GameState, t defs.DefenderType) bool {
	def := b.game.Catalog.Defenders[t]
	if st.Coins < def.Cost || (def.MaxCount > 0 && st.CountDefenders(t) >= def.MaxCount) {
		return false
	}
	for _, c := range b.spots {
		if st.DefenderAt(c) != nil || b.game.CanPlace(t, c) != nil {
			continue
		}
		_, ok := b.game.PlaceDefender(t, c)
		return ok
	}
	return false
}

func (b *Bot) upgradeCheapest(st *entity.GameState) {
	best, bestCost := 0, -1
	for i := range st.Defenders {
		d := &st.Defenders[i]
		cost := b.game.Progression.UpgradeCost(d)
		if cost < 0 || cost > st.Coins {
			continue
		}
		if bestCost < 0 || cost < bestCost {
			best, bestCost = d.ID, cost
		}
	}
	if bestCost >= 0 {
		b.game.UpgradeDefender(best)
	}
}

func alive(st *entity.GameState) int {
	n := 0
	for i := range st.Enemies {
		if st.Enemies[i].Alive() {
			n++
		}
	}
	return n
}
