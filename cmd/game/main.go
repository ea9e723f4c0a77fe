// cmd/game/main.go
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"tower-siege/internal/app"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/persistence"
	"tower-siege/internal/state"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	mapID := flag.String("map", config.DefaultMapID, "map to open when -menu=false")
	saveFile := flag.String("save", "saves.json", "save file")
	seed := flag.Int64("seed", config.DefaultSeed, "random seed, 0 picks one from the clock")
	startFromMenu := flag.Bool("menu", true, "start from the map menu")
	pprofAddr := flag.String("pprof", "", "pprof listen address, e.g. localhost:6060")
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	catalog, err := defs.Default()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	store, err := persistence.NewJSONStore(*saveFile)
	if err != nil {
		// Игра остаётся играбельной и без сохранений.
		slog.Warn("save file unavailable, progress will not be kept", "file", *saveFile, "error", err)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	opts := app.Options{Catalog: catalog, MapID: *mapID, Seed: *seed}
	if store != nil {
		opts.Storage = store
		defer store.Close()
	}

	sm := state.NewStateMachine() // Создаём машину состояний
	if *startFromMenu {
		sm.SetState(state.NewMenuState(sm, opts))
	} else {
		gs, err := state.NewGameState(sm, opts)
		if err != nil {
			log.Fatal(err)
		}
		sm.SetState(gs)
	}
	game := &AppGame{
		stateMachine:   sm,
		lastUpdateTime: time.Now(),
	}
	ebiten.SetTPS(config.TicksPerSecond)
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Tower Siege")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
