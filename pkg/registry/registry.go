package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/strata/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrUnknownState is returned when no factory is registered under a name.
var ErrUnknownState = errors.New("state factory not found")

// StateFactory defines the signature for building a state by name.
// It receives the parameters given by the caller (for example a scenario step)
// and returns a fresh state instance.
type StateFactory func(params map[string]any) (domain.State, error)

// Registry manages the available state factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StateFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StateFactory),
	}
}

// Register adds a factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn StateFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered factory names in lexical order.
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

// Build looks up a factory by name and invokes it.
// Returns an error wrapping ErrUnknownState if the factory is not found.
func (r *Registry) Build(name string, params map[string]any) (domain.State, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, name)
	}

	s, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return s, nil
}

// Decode copies factory params into a typed config struct.
// Unknown keys are an error so that typos in scenario files surface early.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
