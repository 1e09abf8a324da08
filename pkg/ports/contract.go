package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContractState(sessionID string) *domain.RunState {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.RunState{
		SessionID: sessionID,
		Machine:   "bitflip",
		Input:     []domain.Symbol{"1", "0"},
		State:     "q1",
		Tape:      domain.Snapshot{Cells: []domain.Symbol{"_", "0", "1", "_"}, Head: 1, Blank: "_"},
		Steps:     3,
		Status:    domain.StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := newContractState(sessionID)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.State, loaded.State)
		assert.Equal(t, state.Tape, loaded.Tape)
		assert.Equal(t, state.Input, loaded.Input)
		assert.Equal(t, state.Steps, loaded.Steps)
		assert.Equal(t, state.Status, loaded.Status)
		assert.True(t, state.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Tape.Cells[0] = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.Symbol("_"), again.Tape.Cells[0], "callers must not mutate stored state")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newContractState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newContractState(id1))
		_ = store.Save(ctx, id2, newContractState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunDescriptionLoaderContract verifies that a DescriptionLoader serves exactly
// the expected descriptions.
func RunDescriptionLoaderContract(t *testing.T, loader DescriptionLoader, expected map[string]domain.Description) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load Success", func(t *testing.T) {
		for name, want := range expected {
			got, err := loader.Load(ctx, name)
			require.NoError(t, err, "loading %s", name)
			assert.Equal(t, want.Initial, got.Initial)
			assert.Equal(t, want.Rules, got.Rules)
			assert.Equal(t, name, got.Name, "loaded descriptions carry their name")
		}
	})

	t.Run("Load Not Found", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-machine")
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(expected))
		assert.IsNonDecreasing(t, names)
		for name := range expected {
			assert.Contains(t, names, name)
		}
	})
}
