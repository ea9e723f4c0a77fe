package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"tower-siege/internal/entity"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database. Games are kept
// encoded so a load always yields an independent copy.
type JSONData struct {
	Games    map[string]json.RawMessage `json:"games"`
	Progress Progress                   `json:"progress"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Games:    make(map[string]json.RawMessage),
			Progress: NewProgress(),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		// Битый файл откладываем в сторону и начинаем с пустой базы.
		aside := js.filePath + ".corrupt"
		slog.Warn("corrupt JSON store, starting empty", "file", js.filePath, "moved_to", aside, "error", err)
		if rerr := os.Rename(js.filePath, aside); rerr != nil {
			slog.Warn("failed to move corrupt JSON store aside", "file", js.filePath, "error", rerr)
		}
		js.data = &JSONData{
			Games:    make(map[string]json.RawMessage),
			Progress: NewProgress(),
		}
		return nil
	}
	if js.data.Games == nil {
		js.data.Games = make(map[string]json.RawMessage)
	}
	js.data.Progress.normalize()
	return nil
}

func (js *JSONStore) saveToFile() error {
	js.mutex.RLock()
	data, err := json.MarshalIndent(js.data, "", "  ")
	js.mutex.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// SaveGame stores the game under its map id
func (js *JSONStore) SaveGame(_ context.Context, st *entity.GameState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", st.MapID, err)
	}
	js.mutex.Lock()
	js.data.Games[st.MapID] = raw
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadGame loads the save for a map
func (js *JSONStore) LoadGame(_ context.Context, mapID string) (*entity.GameState, error) {
	js.mutex.RLock()
	raw, exists := js.data.Games[mapID]
	js.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("game %s: %w", mapID, ErrNotFound)
	}

	var st entity.GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", mapID, err)
	}
	st.Normalize()
	return &st, nil
}

// ClearGame deletes the save for a map
func (js *JSONStore) ClearGame(_ context.Context, mapID string) error {
	js.mutex.Lock()
	delete(js.data.Games, mapID)
	js.mutex.Unlock()

	return js.saveToFile()
}

func (js *JSONStore) SaveProgress(_ context.Context, p Progress) error {
	p.normalize()
	js.mutex.Lock()
	js.data.Progress = Progress{
		UnlockedAchievements: copySet(p.UnlockedAchievements),
		ClearedMaps:          copySet(p.ClearedMaps),
	}
	js.mutex.Unlock()

	return js.saveToFile()
}

func (js *JSONStore) LoadProgress(_ context.Context) (Progress, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	return Progress{
		UnlockedAchievements: copySet(js.data.Progress.UnlockedAchievements),
		ClearedMaps:          copySet(js.data.Progress.ClearedMaps),
	}, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}

func copySet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
