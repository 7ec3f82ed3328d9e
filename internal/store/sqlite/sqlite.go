// Package sqlite stores vocabulary snapshots in a SQLite database using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/crimson-sun/subword/internal/model"
	"github.com/crimson-sun/subword/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS vocabularies (
	name            TEXT PRIMARY KEY,
	version         INTEGER NOT NULL,
	max_subword_len INTEGER NOT NULL,
	normalize       TEXT NOT NULL DEFAULT '',
	residue         TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS tokens (
	vocabulary TEXT NOT NULL,
	id         INTEGER NOT NULL,
	token      TEXT NOT NULL,
	frequency  INTEGER NOT NULL,
	PRIMARY KEY (vocabulary, id)
);
CREATE TABLE IF NOT EXISTS merges (
	vocabulary TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	subword    TEXT NOT NULL,
	count      INTEGER NOT NULL,
	PRIMARY KEY (vocabulary, seq)
);`

func init() {
	store.Register("sqlite", func(path string) (store.Store, error) {
		return Open(context.Background(), path)
	})
}

// Store keeps snapshots in three tables keyed by vocabulary name.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the named snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, name string, snap model.Snapshot) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	residue, err := json.Marshal(snap.Residue)
	if err != nil {
		return fmt.Errorf("sqlite store: residue: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	for _, q := range []string{
		`DELETE FROM tokens WHERE vocabulary = ?`,
		`DELETE FROM merges WHERE vocabulary = ?`,
		`DELETE FROM vocabularies WHERE name = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, name); err != nil {
			return fmt.Errorf("sqlite store: clear %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vocabularies (name, version, max_subword_len, normalize, residue) VALUES (?, ?, ?, ?, ?)`,
		name, snap.Version, snap.MaxSubwordLen, snap.Normalize, string(residue)); err != nil {
		return fmt.Errorf("sqlite store: insert %s: %w", name, err)
	}

	tokStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tokens (vocabulary, id, token, frequency) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite store: prepare tokens: %w", err)
	}
	defer tokStmt.Close()
	for id, e := range snap.Tokens {
		if _, err := tokStmt.ExecContext(ctx, name, id, e.Token, e.Frequency); err != nil {
			return fmt.Errorf("sqlite store: insert token %d: %w", id, err)
		}
	}

	mergeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO merges (vocabulary, seq, subword, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite store: prepare merges: %w", err)
	}
	defer mergeStmt.Close()
	for seq, m := range snap.Merges {
		if _, err := mergeStmt.ExecContext(ctx, name, seq, m.Subword, m.Count); err != nil {
			return fmt.Errorf("sqlite store: insert merge %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	return nil
}

// Load reads the named snapshot with tokens in ID order.
func (s *Store) Load(ctx context.Context, name string) (model.Snapshot, error) {
	if err := store.ValidateName(name); err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	var residue string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, max_subword_len, normalize, residue FROM vocabularies WHERE name = ?`, name,
	).Scan(&snap.Version, &snap.MaxSubwordLen, &snap.Normalize, &residue)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, fmt.Errorf("sqlite store: %s: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("sqlite store: load %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(residue), &snap.Residue); err != nil {
		return model.Snapshot{}, fmt.Errorf("sqlite store: residue: %w", err)
	}

	snap.Tokens, err = s.loadTokens(ctx, name)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.Merges, err = s.loadMerges(ctx, name)
	if err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) loadTokens(ctx context.Context, name string) ([]model.VocabEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, frequency FROM tokens WHERE vocabulary = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: tokens: %w", err)
	}
	defer rows.Close()

	var entries []model.VocabEntry
	for rows.Next() {
		var e model.VocabEntry
		if err := rows.Scan(&e.Token, &e.Frequency); err != nil {
			return nil, fmt.Errorf("sqlite store: scan token: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) loadMerges(ctx context.Context, name string) ([]model.Merge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subword, count FROM merges WHERE vocabulary = ? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: merges: %w", err)
	}
	defer rows.Close()

	var merges []model.Merge
	for rows.Next() {
		var m model.Merge
		if err := rows.Scan(&m.Subword, &m.Count); err != nil {
			return nil, fmt.Errorf("sqlite store: scan merge: %w", err)
		}
		merges = append(merges, m)
	}
	return merges, rows.Err()
}

// List returns all vocabulary names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM vocabularies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite store: scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
