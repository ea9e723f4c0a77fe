// internal/sim/sim.go
package sim

import (
	"sort"
	"sync"

	"tower-siege/internal/app"
	"tower-siege/internal/component"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
)

// DefaultMaxTicks bounds one run at simulated ~3 hours.
const DefaultMaxTicks = 200000

// Result summarises one headless game.
type Result struct {
	MapID        string         `json:"map"`
	Seed         int64          `json:"seed"`
	Won          bool           `json:"won"`
	Wave         int            `json:"wave"`
	Lives        int            `json:"lives"`
	Coins        int            `json:"coins"`
	Ticks        int            `json:"ticks"`
	Duration     float64        `json:"duration"` // simulated seconds
	Defenders    map[string]int `json:"defenders"`
	Achievements []string       `json:"achievements"`
}

// RunSingle plays one game with the greedy bot until it ends or maxTicks
// elapse. Nothing is persisted.
func RunSingle(catalog *defs.Catalog, mapID string, seed int64, maxTicks int) (Result, error) {
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	g, err := app.NewGame(app.Options{Catalog: catalog, MapID: mapID, Seed: seed})
	if err != nil {
		return Result{}, err
	}
	bot := NewBot(g)
	dt := float64(config.TickInterval.Milliseconds())

	ticks := 0
	for ; ticks < maxTicks; ticks++ {
		st := g.Snapshot()
		bot.Act(st)
		st = g.Snapshot()
		if st.Phase == component.PhaseVictory {
			break
		}
		if st.Phase == component.PhaseDefeat && (st.CheckpointUsed || st.LastCheckpoint == 0) {
			break
		}
		g.Step(dt)
	}

	st := g.Snapshot()
	res := Result{
		MapID:     g.Map.ID,
		Seed:      seed,
		Won:       st.Phase == component.PhaseVictory,
		Wave:      st.Wave,
		Lives:     st.Lives,
		Coins:     st.Coins,
		Ticks:     ticks,
		Duration:  st.Clock / 1000,
		Defenders: map[string]int{},
	}
	for _, d := range st.Defenders {
		res.Defenders[string(d.Type)]++
	}
	for id, ok := range st.UnlockedAchievements {
		if ok {
			res.Achievements = append(res.Achievements, id)
		}
	}
	sort.Strings(res.Achievements)
	return res, nil
}

// Summary aggregates a batch of runs.
type Summary struct {
	Runs         int            `json:"runs"`
	WinRate      float64        `json:"win_rate"`
	AvgWave      float64        `json:"avg_wave"`
	AvgDuration  float64        `json:"avg_duration"`
	Achievements map[string]int `json:"achievements"`
	Errors       int            `json:"errors"`
}

// RunBatch plays n games on a pool of workers. Run i uses seed+i, so a
// batch is reproducible regardless of scheduling.
func RunBatch(catalog *defs.Catalog, mapID string, seed int64, n, workers, maxTicks int) Summary {
	if workers <= 0 {
		workers = 1
	}
	sum := Summary{Runs: n, Achievements: map[string]int{}}
	if n <= 0 {
		return sum
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan int, n)
	wins, waves, dur := 0, 0, 0.0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := RunSingle(catalog, mapID, seed+int64(i), maxTicks)
				mu.Lock()
				if err != nil {
					sum.Errors++
					mu.Unlock()
					continue
				}
				if res.Won {
					wins++
				}
				waves += res.Wave
				dur += res.Duration
				for _, a := range res.Achievements {
					sum.Achievements[a]++
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if ok := n - sum.Errors; ok > 0 {
		sum.WinRate = float64(wins) / float64(ok)
		sum.AvgWave = float64(waves) / float64(ok)
		sum.AvgDuration = dur / float64(ok)
	}
	return sum
}
