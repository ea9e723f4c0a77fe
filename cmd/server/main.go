package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tower-siege/internal/app"
	"tower-siege/internal/config"
	"tower-siege/internal/defs"
	"tower-siege/internal/persistence"
	"tower-siege/internal/transport"
)

func main() {
	store, err := persistence.Open(persistence.Options{
		Type:        os.Getenv("DB_TYPE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		File:        os.Getenv("DB_FILE"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer store.Close()

	catalog, err := defs.Default()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	mapID := os.Getenv("MAP")
	if mapID == "" {
		mapID = config.DefaultMapID
	}
	seed := time.Now().UnixNano()
	if s := os.Getenv("SEED"); s != "" {
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			log.Fatalf("Bad SEED: %v", err)
		}
	}

	game, err := app.NewGame(app.Options{Catalog: catalog, MapID: mapID, Seed: seed, Storage: store})
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := app.NewDriver(game, config.TickInterval)
	server := transport.NewServer(driver)
	go func() {
		if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Driver stopped: %v", err)
		}
	}()
	go server.BroadcastState(ctx, config.TickInterval)

	mux := http.NewServeMux()
	mux.Handle("/ws", server)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on port %s, map %s", port, mapID)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
