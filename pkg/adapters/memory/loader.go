package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/turing/pkg/domain"
)

// Loader implements ports.DescriptionLoader using an in-memory map.
type Loader struct {
	machines map[string]domain.Description
}

// NewLoader creates a loader serving the given descriptions, keyed by their Name.
func NewLoader(descs ...domain.Description) (*Loader, error) {
	machines := make(map[string]domain.Description, len(descs))
	for _, d := range descs {
		if d.Name == "" {
			return nil, fmt.Errorf("description missing name")
		}
		if _, dup := machines[d.Name]; dup {
			return nil, fmt.Errorf("duplicate machine name %q", d.Name)
		}
		machines[d.Name] = d.Clone()
	}
	return &Loader{machines: machines}, nil
}

// Load returns a copy of the description registered under name.
func (l *Loader) Load(ctx context.Context, name string) (domain.Description, error) {
	d, ok := l.machines[name]
	if !ok {
		return domain.Description{}, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, name)
	}
	return d.Clone(), nil
}

// List returns all machine names in sorted order.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.machines))
	for k := range l.machines {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
