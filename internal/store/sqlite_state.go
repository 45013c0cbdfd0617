package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"takes-cli/internal/model"

	_ "modernc.org/sqlite"
)

const dbFileName = "takes.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), dbFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout so an accidental second process degrades to lock
	// waits instead of "database is locked" failures. The store is still
	// single-writer by design.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			parent_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_items_pos ON items(pos);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite loads the full collection. An absent or empty slot yields an
// empty collection. If the SQLite slot is empty but a legacy tracker.json
// exists (the old single-file export), it is imported once, migrated to the
// current shape, and persisted so later loads skip the import.
//
// A malformed slot is not an error for the caller: we log the condition and
// fall back to an empty collection, trading data visibility for availability.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := readItemRows(ctx, db)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		// Import the legacy file only into a never-written slot. An empty
		// table on an initialized slot means the user deleted everything;
		// re-importing would resurrect deleted items.
		if s.slotInitialized(ctx, db) {
			return &DB{Version: s.readVersion(ctx, db), Items: []model.Item{}}, nil
		}
		if b, err := os.ReadFile(s.legacyPath()); err == nil && len(b) > 0 {
			items, _, derr := DecodeItems(b, time.Now().UnixMilli())
			if derr != nil {
				log.Printf("takes: legacy store %s is unreadable, starting empty: %v", s.legacyPath(), derr)
				return &DB{Version: 1, Items: []model.Item{}}, nil
			}
			out := &DB{Version: 1, Items: items}
			if err := s.SaveSQLite(ctx, out); err != nil {
				return nil, err
			}
			return out, nil
		}
		return &DB{Version: 1, Items: []model.Item{}}, nil
	}

	items, migrated, err := MigrateItems(rows, time.Now().UnixMilli())
	if err != nil {
		log.Printf("takes: store %s is malformed, starting empty: %v", s.sqlitePath(), err)
		return &DB{Version: 1, Items: []model.Item{}}, nil
	}

	out := &DB{Version: s.readVersion(ctx, db), Items: items}
	if migrated {
		// Persist the upgraded shape immediately so subsequent loads skip
		// migration.
		if err := s.SaveSQLite(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SaveSQLite writes the full collection in one transaction (delete-all plus
// insert), so a concurrent-turn Load never observes a partial write.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = 1
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(version)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}

	for pos, it := range st.Items {
		raw, err := json.Marshal(it)
		if err != nil {
			return err
		}
		parent := ""
		if it.ParentID != nil {
			parent = strings.TrimSpace(*it.ParentID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id, pos, parent_id, type, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			it.ID, pos, parent, string(it.Type), it.Name, string(raw), it.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readItemRows(ctx context.Context, db *sql.DB) ([]json.RawMessage, error) {
	rows, err := db.QueryContext(ctx, `SELECT json FROM items ORDER BY pos ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(js))
	}
	return out, rows.Err()
}

// slotInitialized reports whether the slot has ever been saved. SaveSQLite
// always writes the version row, so its presence distinguishes "fresh slot"
// from "collection deleted down to nothing".
func (s Store) slotInitialized(ctx context.Context, db *sql.DB) bool {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	return err == nil
}

func (s Store) readVersion(ctx context.Context, db *sql.DB) int {
	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		return n
	}
	return 1
}
