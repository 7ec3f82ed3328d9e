package store

import (
	"context"
	"testing"

	"github.com/crimson-sun/subword/internal/model"
)

type memStore struct {
	path  string
	snaps map[string]model.Snapshot
}

func (m *memStore) Save(_ context.Context, name string, snap model.Snapshot) error {
	m.snaps[name] = snap
	return nil
}

func (m *memStore) Load(_ context.Context, name string) (model.Snapshot, error) {
	s, ok := m.snaps[name]
	if !ok {
		return model.Snapshot{}, ErrNotFound
	}
	return s, nil
}

func (m *memStore) List(context.Context) ([]string, error) { return nil, nil }
func (m *memStore) Close() error                           { return nil }

func TestRegistry(t *testing.T) {
	Register("mem-test", func(path string) (Store, error) {
		return &memStore{path: path, snaps: map[string]model.Snapshot{}}, nil
	})

	s, err := Open("mem-test", "somewhere")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.(*memStore).path != "somewhere" {
		t.Errorf("constructor received path %q", s.(*memStore).path)
	}

	found := false
	for _, name := range Backends() {
		if name == "mem-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("Backends() = %v, missing mem-test", Backends())
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("carrier-pigeon", ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"default", true},
		{"wiki-4k.v2", true},
		{"", false},
		{"a/b", false},
		{`a\b`, false},
		{"..", false},
		{".", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateName(%q) = %v, want valid=%v", tt.name, err, tt.valid)
		}
	}
}
