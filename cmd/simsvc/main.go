package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/sim"
)

func main() {
	var defsDir, out, mapID string
	var seed int64
	var n, workers, maxTicks int
	var verbose bool
	flag.StringVar(&defsDir, "defs", "", "catalog dir, empty uses the built-in one")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&mapID, "map", config.DefaultMapID, "map id")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", 8, "parallel workers for batches")
	flag.IntVar(&maxTicks, "max-ticks", sim.DefaultMaxTicks, "tick limit per run")
	flag.BoolVar(&verbose, "v", false, "log rejected bot actions")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	catalog, err := loadCatalog(defsDir)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	if n <= 1 {
		res, err := sim.RunSingle(catalog, mapID, seed, maxTicks)
		if err != nil {
			log.Fatal(err)
		}
		if err := writeJSON(out, res); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Single run finished. Won=%v, wave=%d, lives=%d, T=%.1fs -> %s\n", res.Won, res.Wave, res.Lives, res.Duration, out)
		return
	}

	summary := sim.RunBatch(catalog, mapID, seed, n, workers, maxTicks)
	if err := writeJSON(out, summary); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Batch %d done, win rate %.2f -> %s\n", n, summary.WinRate, filepath.Base(out))
}

func loadCatalog(dir string) (*defs.Catalog, error) {
	if dir == "" {
		return defs.Default()
	}
	return defs.LoadDir(dir)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
