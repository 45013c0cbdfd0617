package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"takes-cli/internal/model"
)

const legacyFileName = "tracker.json"

// DB is the full persisted collection. Items keeps collection order: new
// items are inserted at the front, so position doubles as recency.
type DB struct {
	Version int          `json:"version"`
	Items   []model.Item `json:"items"`
}

type Store struct {
	Dir string
}

// DefaultDir resolves the store directory: $TAKES_DIR if set, otherwise
// ~/.takes.
func DefaultDir() (string, error) {
	if v := os.Getenv("TAKES_DIR"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".takes"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) legacyPath() string {
	return filepath.Join(s.Dir, legacyFileName)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

func (db *DB) FindItem(id string) (*model.Item, bool) {
	for i := range db.Items {
		if db.Items[i].ID == id {
			return &db.Items[i], true
		}
	}
	return nil, false
}

// ReplaceItem swaps the stored record with the same id. Returns false when
// the item is no longer in the collection (deleted since it was loaded).
func (db *DB) ReplaceItem(it model.Item) bool {
	for i := range db.Items {
		if db.Items[i].ID == it.ID {
			db.Items[i] = it
			return true
		}
	}
	return false
}

func NowMilli() int64 { return time.Now().UnixMilli() }
