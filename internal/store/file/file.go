// Package file stores vocabulary snapshots as YAML files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/subword/internal/model"
	"github.com/crimson-sun/subword/internal/store"
)

const ext = ".yaml"

func init() {
	store.Register("file", func(path string) (store.Store, error) {
		return New(path)
	})
}

// Store keeps one <name>.yaml file per vocabulary under dir.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a Store rooted at it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file that holds the named snapshot.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Save writes snap to a temporary file and renames it into place.
func (s *Store) Save(_ context.Context, name string, snap model.Snapshot) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	data, err := yaml.Marshal(toDisk(snap))
	if err != nil {
		return fmt.Errorf("file store: marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("file store: rename %s: %w", name, err)
	}
	return nil
}

// Load reads and decodes the named snapshot.
func (s *Store) Load(_ context.Context, name string) (model.Snapshot, error) {
	if err := store.ValidateName(name); err != nil {
		return model.Snapshot{}, err
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Snapshot{}, fmt.Errorf("file store: %s: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("file store: %w", err)
	}

	var d diskSnapshot
	if err := yaml.Unmarshal(data, &d); err != nil {
		return model.Snapshot{}, fmt.Errorf("file store: decode %s: %w", name, err)
	}
	return d.snapshot(), nil
}

// List returns the names of all snapshots in the directory.
func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op; files are not held open between calls.
func (s *Store) Close() error {
	return nil
}
