package store

import (
	"fmt"
	"sort"
)

// Constructor opens a Store at the given location (a directory or database path).
type Constructor func(path string) (Store, error)

var registry = map[string]Constructor{}

// Register adds a store constructor under the given backend name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Open resolves the backend and opens a Store at path.
func Open(backend, path string) (Store, error) {
	ctor, ok := registry[backend]
	if !ok {
		return nil, fmt.Errorf("store: unknown backend: %s", backend)
	}
	return ctor(path)
}

// Backends returns the names of all registered backends, sorted.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
