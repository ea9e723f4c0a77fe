package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"tower-siege/internal/entity"
	"tower-siege/internal/persistence"
	"tower-siege/internal/system"
)

// saveKey is the part of the state whose change triggers a save.
type saveKey struct {
	Phase        string
	Wave         int
	Coins        int
	Lives        int
	Achievements int
	Defenders    string
}

func keyOf(st *entity.GameState) saveKey {
	parts := make([]string, 0, len(st.Defenders))
	for _, d := range st.Defenders {
		parts = append(parts, fmt.Sprintf("%d:%s:%d", d.ID, d.Type, d.Level))
	}
	sort.Strings(parts)
	return saveKey{
		Phase:        st.Phase.String(),
		Wave:         st.Wave,
		Coins:        st.Coins,
		Lives:        st.Lives,
		Achievements: len(st.UnlockedAchievements),
		Defenders:    strings.Join(parts, ","),
	}
}

// persist saves the map slot when something relevant changed outside active
// play, and the global progress whenever it grew. Failures are logged only.
func (g *Game) persist(st *entity.GameState, ctx *system.TickContext) {
	progressChanged := g.mergeProgress(st, ctx)
	if g.storage == nil {
		return
	}
	bg := context.Background()
	if progressChanged {
		if err := g.storage.SaveProgress(bg, g.progressCopy()); err != nil {
			slog.Error("failed to save progress", "error", err)
		}
	}
	if st.Playing() {
		return
	}
	key := keyOf(st)
	g.mu.Lock()
	if key == g.saved {
		g.mu.Unlock()
		return
	}
	g.saved = key
	g.mu.Unlock()
	if err := g.storage.SaveGame(bg, st); err != nil {
		slog.Error("failed to save game", "map", st.MapID, "error", err)
	}
}

func (g *Game) mergeProgress(st *entity.GameState, ctx *system.TickContext) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	changed := false
	for id := range st.UnlockedAchievements {
		if !g.progress.UnlockedAchievements[id] {
			g.progress.UnlockedAchievements[id] = true
			changed = true
		}
	}
	for id, ok := range ctx.ClearedMaps {
		if ok && !g.progress.ClearedMaps[id] {
			g.progress.ClearedMaps[id] = true
			changed = true
		}
	}
	return changed
}

func (g *Game) progressCopy() persistence.Progress {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p := persistence.NewProgress()
	for k, v := range g.progress.UnlockedAchievements {
		p.UnlockedAchievements[k] = v
	}
	for k, v := range g.progress.ClearedMaps {
		p.ClearedMaps[k] = v
	}
	return p
}
