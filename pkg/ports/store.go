package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// StateStore defines the interface for persisting stepwise runs.
// This enables "Stop & Resume" execution across requests and processes.
type StateStore interface {
	// Save persists the run state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.RunState) error

	// Load retrieves the run state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.RunState, error)

	// Delete removes the run state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
