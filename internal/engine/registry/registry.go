package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
)

// Registry manages available engines.
// Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	engines   map[string]core.Engine
	factories map[string]EngineFactory
}

// EngineFactory creates engine instances.
type EngineFactory func() (core.Engine, error)

var globalRegistry = New()

// Global returns the global engine registry.
func Global() *Registry {
	return globalRegistry
}

// Register registers an engine factory.
// The factory will be called lazily when Get() is first called.
func (r *Registry) Register(name string, factory EngineFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("engine %q already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Get retrieves an engine by name.
// Creates the engine on first access (lazy initialization).
func (r *Registry) Get(name string) (core.Engine, error) {
	// Fast path: check if already created
	r.mu.RLock()
	if engine, ok := r.engines[name]; ok {
		r.mu.RUnlock()
		return engine, nil
	}
	r.mu.RUnlock()

	// Slow path: create engine
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if engine, ok := r.engines[name]; ok {
		return engine, nil
	}

	// Look up factory
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("engine %q not registered", name)
	}

	// Create engine
	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create engine %q: %w", name, err)
	}

	r.engines[name] = engine
	return engine, nil
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		engines:   make(map[string]core.Engine),
		factories: make(map[string]EngineFactory),
	}
}

// List returns all registered engine names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every engine created so far and forgets it, so the next Get
// creates a fresh instance.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, engine := range r.engines {
		if err := engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close engine %q: %w", name, err))
		}
		delete(r.engines, name)
	}
	return errors.Join(errs...)
}

// Capabilities creates every registered engine and returns what each one
// supports, in name order.
func (r *Registry) Capabilities() ([]core.EngineCapabilities, error) {
	var caps []core.EngineCapabilities
	for _, name := range r.List() {
		engine, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		caps = append(caps, engine.GetCapabilities())
	}
	return caps, nil
}

// MustRegister registers an engine factory and panics on error.
// Useful for init() functions.
func MustRegister(name string, factory EngineFactory) {
	if err := Global().Register(name, factory); err != nil {
		panic(err)
	}
}
