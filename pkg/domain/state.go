package domain

import (
	"slices"
	"time"
)

// RunState is the persisted, resumable form of an in-progress run.
// Exactly one writer may advance a RunState at a time.
type RunState struct {
	SessionID string          `json:"session_id"`
	Machine   string          `json:"machine"`
	Input     []Symbol        `json:"input"`
	State     State           `json:"state"`
	Tape      Snapshot        `json:"tape"`
	Steps     int             `json:"steps"`
	Status    ExecutionStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Sealed holds the encrypted run when the state is an envelope written
	// by an encrypting store. Input, State and Tape are empty in that case.
	Sealed []byte `json:"sealed,omitempty"`
}

// Halted reports whether the run has reached a halting configuration.
func (r *RunState) Halted() bool {
	return r.Status.Halted()
}

// Outcome builds the outcome record for the current configuration.
func (r *RunState) Outcome() Outcome {
	return Outcome{
		Accepted:   r.Status == StatusAccepted,
		Status:     r.Status,
		Steps:      r.Steps,
		FinalState: r.State,
		Tape:       r.Tape,
	}
}

// Clone returns a deep copy of the run state.
func (r *RunState) Clone() *RunState {
	if r == nil {
		return nil
	}
	out := *r
	out.Input = slices.Clone(r.Input)
	out.Tape.Cells = slices.Clone(r.Tape.Cells)
	out.Sealed = slices.Clone(r.Sealed)
	return &out
}
