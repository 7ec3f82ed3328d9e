// Package store persists trained vocabularies as snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/subword/internal/model"
)

// ErrNotFound is returned by Load when no snapshot exists under the name.
var ErrNotFound = errors.New("store: vocabulary not found")

// Store defines the interface all snapshot backends must implement.
type Store interface {
	// Save writes snap under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, snap model.Snapshot) error

	// Load reads the snapshot stored under name.
	Load(ctx context.Context, name string) (model.Snapshot, error)

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// ValidateName rejects names that are empty or could escape a directory.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("store: empty vocabulary name")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("store: invalid vocabulary name %q", name)
	}
	return nil
}
