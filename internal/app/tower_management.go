// internal/app/tower_management.go
package app

import (
	"log/slog"

	"tower-siege/internal/component"
	"tower-siege/internal/defs"
	"tower-siege/internal/entity"
	"tower-siege/internal/system"
	"tower-siege/pkg/gridmap"
)

// apply runs a player action against a copy of the current snapshot. A
// rejected action leaves the published snapshot untouched and returns it
// with ok == false.
func (g *Game) apply(name string, action func(st *entity.GameState, ctx *system.TickContext) error) (*entity.GameState, bool) {
	st, err := g.applyErr(name, action)
	return st, err == nil
}

func (g *Game) applyErr(name string, action func(st *entity.GameState, ctx *system.TickContext) error) (*entity.GameState, error) {
	g.mu.Lock()
	cur := g.state
	st := cur.Clone()
	ctx := g.newContext(0)
	if err := action(st, ctx); err != nil {
		g.mu.Unlock()
		slog.Debug("action rejected", "action", name, "error", err)
		return cur, err
	}
	g.state = st
	g.mu.Unlock()

	g.afterChange(st, ctx)
	return st, nil
}

// PlaceDefender attempts to place a defender of type t on the cell.
func (g *Game) PlaceDefender(t defs.DefenderType, cell gridmap.Cell) (*entity.GameState, bool) {
	return g.apply("place", func(st *entity.GameState, ctx *system.TickContext) error {
		_, err := g.Factory.PlaceDefender(st, ctx, t, cell)
		return err
	})
}

// UpgradeDefender raises the defender's level by one.
func (g *Game) UpgradeDefender(id int) (*entity.GameState, bool) {
	return g.apply("upgrade", func(st *entity.GameState, ctx *system.TickContext) error {
		return g.Progression.UpgradeDefender(st, ctx, id)
	})
}

// SellDefender removes the defender and refunds coins.
func (g *Game) SellDefender(id int) (*entity.GameState, bool) {
	return g.apply("sell", func(st *entity.GameState, ctx *system.TickContext) error {
		return g.Progression.SellDefender(st, ctx, id)
	})
}

// DefenderAt returns a copy of the defender on the cell in the current
// snapshot.
func (g *Game) DefenderAt(cell gridmap.Cell) (component.Defender, bool) {
	st := g.Snapshot()
	if d := st.DefenderAt(cell); d != nil {
		return *d, true
	}
	return component.Defender{}, false
}

// CanPlace reports whether a defender of type t could be placed on the cell
// right now, without changing anything.
func (g *Game) CanPlace(t defs.DefenderType, cell gridmap.Cell) error {
	st := g.Snapshot().Clone()
	_, err := g.Factory.PlaceDefender(st, &system.TickContext{Catalog: g.Catalog, Map: g.Map}, t, cell)
	return err
}
