package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// DescriptionLoader defines how machine descriptions are retrieved.
// This allows the source (directory, memory, remote) to be decoupled.
type DescriptionLoader interface {
	// Load returns the description registered under name.
	// Returns domain.ErrMachineNotFound if there is none.
	Load(ctx context.Context, name string) (domain.Description, error)

	// List returns the names of every available machine in a deterministic order.
	List(ctx context.Context) ([]string, error)
}
