package persistence

import "log/slog"

// Options selects a storage backend.
type Options struct {
	Type        string // "postgres" or "json"
	DatabaseURL string
	File        string
}

// Open creates the backend named by opts, defaulting to the JSON file store.
func Open(opts Options) (Storage, error) {
	if opts.Type == "postgres" {
		dsn := opts.DatabaseURL
		if dsn == "" {
			dsn = "host=localhost user=siege password=siege dbname=tower_siege sslmode=disable"
		}
		slog.Info("using PostgreSQL persistence")
		store, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	file := opts.File
	if file == "" {
		file = "saves.json"
	}
	slog.Info("using JSON persistence", "file", file)
	store, err := NewJSONStore(file)
	if err != nil {
		return nil, err
	}
	return store, nil
}
