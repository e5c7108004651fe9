package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Config selects and parameterizes a backend.
type Config struct {
	// Path is the backend's open configuration: a database file for sqlite,
	// ignored by memory.
	Path string
	// Driver selects the database/sql driver for sqlite.
	Driver string
	// Addr, DB and Prefix address a Redis keyspace.
	Addr   string
	DB     int
	Prefix string
	// Create allows Open to initialize missing persistent state.
	Create bool
	Logger *zap.Logger
}

// Factory builds an unopened backend.
type Factory func(cfg Config) (Store, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes a backend available under name. Backends register
// themselves from init; registering a name twice panics.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	name = strings.ToLower(name)
	if factory == nil {
		panic("store: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("store: Register called twice for backend " + name)
	}
	factories[name] = factory
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named backend without opening it.
func New(name string, cfg Config) (Store, error) {
	factoriesMu.RLock()
	factory, ok := factories[strings.ToLower(name)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown backend %q (registered: %s)", name, strings.Join(Backends(), ", "))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return factory(cfg)
}

// Open builds the named backend and opens it with cfg.Path.
func Open(name string, cfg Config) (Store, error) {
	st, err := New(name, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Open(cfg.Path, cfg.Create); err != nil {
		return nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	return st, nil
}
