package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescription is matched by every construction-time defect of a Description.
var ErrInvalidDescription = errors.New("invalid machine description")

// ErrInvalidRule is returned when a rule cannot be parsed.
var ErrInvalidRule = errors.New("invalid transition rule")

// ErrUnknownState is returned when a start state override is not part of the state set.
var ErrUnknownState = errors.New("unknown state")

// ErrStepLimit is returned when a run is stopped by its step budget before halting.
var ErrStepLimit = errors.New("step limit reached")

// ErrMachineNotFound is returned when a loader has no machine with the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError represents a single description defect.
type ValidationError struct {
	Field  string // e.g. "initial", "rules[3].move"
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %q)", e.Field, e.Reason, fmt.Sprint(e.Value))
}

// DescriptionError aggregates every defect found in a Description.
// It matches ErrInvalidDescription with errors.Is.
type DescriptionError struct {
	Name   string
	Errors []error
}

func (e *DescriptionError) Error() string {
	prefix := ErrInvalidDescription.Error()
	if e.Name != "" {
		prefix = fmt.Sprintf("%s %q", prefix, e.Name)
	}
	if len(e.Errors) == 1 {
		return prefix + ": " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d errors:\n", prefix, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Is reports whether target is ErrInvalidDescription.
func (e *DescriptionError) Is(target error) bool {
	return target == ErrInvalidDescription
}

// Unwrap exposes the individual validation errors to errors.As.
func (e *DescriptionError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err wraps a DescriptionError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var descErr *DescriptionError
	if errors.As(err, &descErr) {
		return descErr.Errors
	}
	return nil
}
