package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/session"
)

// NewSessionManager wires the configured store, the engines and, for shared
// stores, the distributed locker.
func NewSessionManager(opts Options, logger *slog.Logger, engines session.EngineSource) (*session.Manager, error) {
	store, locker, err := NewSessionStore(opts)
	if err != nil {
		return nil, err
	}
	managerOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	return session.NewManager(store, engines, managerOpts...), nil
}

func sessionManager(opts Options) (*session.Manager, error) {
	logger := opts.Logger()
	return NewSessionManager(opts, logger, NewRegistry(opts, logger))
}

// StartSession begins a stepwise run of machine and prints its ID.
func StartSession(ctx context.Context, opts Options, machine, input string, out io.Writer) error {
	mgr, err := sessionManager(opts)
	if err != nil {
		return err
	}
	input, err = turing.SanitizeInput(input)
	if err != nil {
		return err
	}
	rs, err := mgr.Start(ctx, machine, domain.SplitInput(input, opts.Sep))
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(out, rs)
	}
	fmt.Fprintln(out, rs.SessionID)
	return nil
}

// StepSession applies up to n steps to a session and prints its state.
// Reaching the step budget is not an error here.
func StepSession(ctx context.Context, opts Options, id string, n int, out io.Writer) error {
	mgr, err := sessionManager(opts)
	if err != nil {
		return err
	}
	rs, err := mgr.Step(ctx, id, n)
	if err != nil && !errors.Is(err, domain.ErrStepLimit) {
		return err
	}
	return printSession(opts, rs, out)
}

// ShowSession prints a stored session.
func ShowSession(ctx context.Context, opts Options, id string, out io.Writer) error {
	mgr, err := sessionManager(opts)
	if err != nil {
		return err
	}
	rs, err := mgr.Get(ctx, id)
	if err != nil {
		return err
	}
	return printSession(opts, rs, out)
}

// ListSessions prints one session ID per line.
func ListSessions(ctx context.Context, opts Options, out io.Writer) error {
	mgr, err := sessionManager(opts)
	if err != nil {
		return err
	}
	ids, err := mgr.List(ctx)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(out, ids)
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

// DeleteSession removes a session.
func DeleteSession(ctx context.Context, opts Options, id string, out io.Writer) error {
	mgr, err := sessionManager(opts)
	if err != nil {
		return err
	}
	if err := mgr.Delete(ctx, id); err != nil {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(out, "Session '%s' deleted.", id)
	}
	return nil
}

func printSession(opts Options, rs *domain.RunState, out io.Writer) error {
	if opts.JSON {
		return writeJSON(out, rs)
	}
	tape := rs.Tape
	fmt.Fprintf(out, "session: %s\nmachine: %s\nstatus:  %s\nstate:   %s\nsteps:   %d\n",
		rs.SessionID, rs.Machine, rs.Status, rs.State, rs.Steps)
	fmt.Fprintf(out, "tape:    %s\n         %*s^\n", tape.String(), tape.Caret(), "")
	if rs.Halted() && isTerminal(out) {
		rendered, err := tui.NewRenderer()(tui.Summary(rs.Machine, rs.Input, rs.Outcome()))
		if err == nil {
			fmt.Fprint(out, rendered)
		}
	}
	return nil
}
