package providers

import (
	"fmt"
	"sync"

	"careerlens/pkg/models"
	"careerlens/pkg/utils"
)

// Registry holds the registered adapters in registration order. That order
// is load-bearing: the deduplicator's first-seen-wins rule resolves
// cross-provider ties by it, which keeps aggregation results reproducible.
type Registry struct {
	mu       sync.RWMutex
	adapters []Adapter
	byName   map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Adapter),
	}
}

// Register adds an adapter. Names must be unique across domains.
func (r *Registry) Register(adapter Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := adapter.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}

	r.adapters = append(r.adapters, adapter)
	r.byName[name] = adapter
	return nil
}

// ForDomain returns the adapters serving a domain, optionally restricted to
// an explicit subset of names, preserving registration order. Unknown names
// in the subset are ignored.
func (r *Registry) ForDomain(domain models.Domain, sources []string) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Adapter
	for _, adapter := range r.adapters {
		if adapter.Domain() != domain {
			continue
		}
		if len(sources) > 0 && !utils.Contains(sources, adapter.Name()) {
			continue
		}
		out = append(out, adapter)
	}
	return out
}

// Names returns the registered provider names for a domain, in registration
// order.
func (r *Registry) Names(domain models.Domain) []string {
	adapters := r.ForDomain(domain, nil)
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}
