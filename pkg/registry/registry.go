// Package registry resolves machine names to compiled engines.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Registry compiles machines from a loader on first use and caches the
// engines. Registered machines take precedence over the loader.
// Safe for concurrent use.
type Registry struct {
	loader ports.DescriptionLoader
	opts   []turing.Option

	mu      sync.RWMutex
	engines map[string]*turing.Engine
	pinned  map[string]bool
}

// New creates a registry over loader. opts are applied to every engine.
// loader may be nil when machines are only registered directly.
func New(loader ports.DescriptionLoader, opts ...turing.Option) *Registry {
	return &Registry{
		loader:  loader,
		opts:    opts,
		engines: make(map[string]*turing.Engine),
		pinned:  make(map[string]bool),
	}
}

// Register compiles desc and makes it available under its name.
// If a machine with the same name exists, it is overwritten.
func (r *Registry) Register(desc domain.Description) error {
	if desc.Name == "" {
		return fmt.Errorf("%w: machine name is required", domain.ErrInvalidDescription)
	}
	eng, err := turing.New(desc, r.opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[desc.Name] = eng
	r.pinned[desc.Name] = true
	return nil
}

// Engine returns the compiled engine for name.
func (r *Registry) Engine(ctx context.Context, name string) (*turing.Engine, error) {
	r.mu.RLock()
	eng, ok := r.engines[name]
	r.mu.RUnlock()
	if ok {
		return eng, nil
	}

	if r.loader == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, name)
	}
	desc, err := r.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	eng, err = turing.New(desc, r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.engines[name]; ok {
		return cached, nil
	}
	r.engines[name] = eng
	return eng, nil
}

// Describe returns the definition of name.
func (r *Registry) Describe(ctx context.Context, name string) (domain.Description, error) {
	eng, err := r.Engine(ctx, name)
	if err != nil {
		return domain.Description{}, err
	}
	return eng.Description(), nil
}

// List returns the sorted names known to the loader and the registered machines.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	var names []string
	if r.loader != nil {
		var err error
		if names, err = r.loader.List(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	for name := range r.pinned {
		names = append(names, name)
	}
	r.mu.RUnlock()

	return dedupe(names), nil
}

// Invalidate drops the cached engine for name so that the next lookup reloads
// it. Registered machines are not affected.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.pinned[name] {
		delete(r.engines, name)
	}
}
