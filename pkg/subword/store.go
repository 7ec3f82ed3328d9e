package subword

import (
	"context"
	"fmt"

	"github.com/crimson-sun/subword/internal/store"

	// Registered storage backends.
	_ "github.com/crimson-sun/subword/internal/store/file"
	_ "github.com/crimson-sun/subword/internal/store/sqlite"
)

// Store holds named vocabularies. Backends: "file" (a directory of YAML
// snapshots) and "sqlite" (a database file).
type Store struct {
	s store.Store
}

// OpenStore opens the backend at path.
func OpenStore(backend, path string) (*Store, error) {
	s, err := store.Open(backend, path)
	if err != nil {
		return nil, fmt.Errorf("subword: %w", err)
	}
	return &Store{s: s}, nil
}

// Names lists the stored vocabularies.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	return s.s.List(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.s.Close()
}

// Save writes the vocabulary to st under name.
func (t *Tokenizer) Save(ctx context.Context, st *Store, name string) error {
	t.mu.RLock()
	snap := t.engine.Snapshot()
	t.mu.RUnlock()
	if err := st.s.Save(ctx, name, snap); err != nil {
		return fmt.Errorf("subword: save %s: %w", name, err)
	}
	return nil
}

// Load replaces the vocabulary with the one stored under name. A missing
// name yields an error matching ErrNotFound.
func (t *Tokenizer) Load(ctx context.Context, st *Store, name string) error {
	snap, err := st.s.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("subword: load %s: %w", name, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.engine.Restore(snap); err != nil {
		return fmt.Errorf("subword: load %s: %w", name, err)
	}
	return nil
}

// Backends lists the available store backends.
func Backends() []string {
	return store.Backends()
}
