package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tower-siege/internal/entity"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game_saves (
		map_id TEXT PRIMARY KEY,
		wave INTEGER NOT NULL,
		coins INTEGER NOT NULL,
		lives INTEGER NOT NULL,
		state JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS progress (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		achievements JSONB NOT NULL,
		cleared_maps JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// SaveGame upserts the state of one map
func (ps *PostgresStore) SaveGame(ctx context.Context, st *entity.GameState) error {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", st.MapID, err)
	}

	query := `
	INSERT INTO game_saves (map_id, wave, coins, lives, state)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (map_id)
	DO UPDATE SET
		wave = $2, coins = $3, lives = $4, state = $5,
		updated_at = NOW()
	`
	if _, err := ps.db.ExecContext(ctx, query, st.MapID, st.Wave, st.Coins, st.Lives, string(stateJSON)); err != nil {
		return fmt.Errorf("failed to save game %s: %w", st.MapID, err)
	}
	return nil
}

// LoadGame loads the state of one map
func (ps *PostgresStore) LoadGame(ctx context.Context, mapID string) (*entity.GameState, error) {
	var stateJSON string
	err := ps.db.QueryRowContext(ctx, `SELECT state FROM game_saves WHERE map_id = $1`, mapID).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", mapID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load game %s: %w", mapID, err)
	}

	var st entity.GameState
	if err := json.Unmarshal([]byte(stateJSON), &st); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", mapID, err)
	}
	st.Normalize()
	return &st, nil
}

func (ps *PostgresStore) ClearGame(ctx context.Context, mapID string) error {
	if _, err := ps.db.ExecContext(ctx, `DELETE FROM game_saves WHERE map_id = $1`, mapID); err != nil {
		return fmt.Errorf("failed to clear game %s: %w", mapID, err)
	}
	return nil
}

func (ps *PostgresStore) SaveProgress(ctx context.Context, p Progress) error {
	p.normalize()
	achievements, err := json.Marshal(p.UnlockedAchievements)
	if err != nil {
		return fmt.Errorf("failed to marshal achievements: %w", err)
	}
	cleared, err := json.Marshal(p.ClearedMaps)
	if err != nil {
		return fmt.Errorf("failed to marshal cleared maps: %w", err)
	}

	query := `
	INSERT INTO progress (id, achievements, cleared_maps)
	VALUES (1, $1, $2)
	ON CONFLICT (id)
	DO UPDATE SET achievements = $1, cleared_maps = $2, updated_at = NOW()
	`
	if _, err := ps.db.ExecContext(ctx, query, string(achievements), string(cleared)); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (ps *PostgresStore) LoadProgress(ctx context.Context) (Progress, error) {
	var achievements, cleared string
	err := ps.db.QueryRowContext(ctx, `SELECT achievements, cleared_maps FROM progress WHERE id = 1`).Scan(&achievements, &cleared)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewProgress(), nil
		}
		return Progress{}, fmt.Errorf("failed to load progress: %w", err)
	}

	p := NewProgress()
	if err := json.Unmarshal([]byte(achievements), &p.UnlockedAchievements); err != nil {
		return Progress{}, fmt.Errorf("failed to decode achievements: %w", err)
	}
	if err := json.Unmarshal([]byte(cleared), &p.ClearedMaps); err != nil {
		return Progress{}, fmt.Errorf("failed to decode cleared maps: %w", err)
	}
	p.normalize()
	return p, nil
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
