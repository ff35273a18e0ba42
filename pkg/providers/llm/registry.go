package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages LLM provider registration and lookup. It maps provider
// names to factories only; provider instances are built per call so that
// caller-supplied credentials are never cached by this layer.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
	}
}

// Register registers a new provider factory
func (r *Registry) Register(factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory.GetName()
	if name == "" {
		return fmt.Errorf("provider factory must have a non-empty name")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider '%s' is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Lookup returns the factory registered for the given provider name. An
// unknown name, including UI-advertised providers with no backing adapter,
// yields ErrUnsupportedProvider.
func (r *Registry) Lookup(name string) (ProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
	return factory, nil
}

// ListProviders returns the names of all registered providers, sorted.
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Factories returns all registered factories in name order.
func (r *Registry) Factories() []ProviderFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	factories := make([]ProviderFactory, 0, len(names))
	for _, name := range names {
		factories = append(factories, r.factories[name])
	}
	return factories
}
