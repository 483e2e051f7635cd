package library

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("library")

// Registry maps library names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the given name. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("library name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("library %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// New creates a new instance of the named library.
// Unknown names fail with store.ErrUnknownLibrary.
func (r *Registry) New(name string) (ILibrary, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, store.Errorf(store.RetCUnknownLibrary, "library %q is not registered", name)
	}

	lib, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create library %q: %w", name, err)
	}
	Logger.Debugf("created instance of library %q", name)
	return lib, nil
}

// Names returns the sorted names of all registered libraries
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
