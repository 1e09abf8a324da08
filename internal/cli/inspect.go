package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
)

// ErrValidationFailed is returned when at least one machine has errors.
var ErrValidationFailed = errors.New("validation failed")

// ValidateMachines reports on each named machine, or on every machine of
// opts.Dir when names is empty.
func ValidateMachines(ctx context.Context, opts Options, names []string, out io.Writer) error {
	if len(names) == 0 {
		all, err := file.NewLoader(opts.Dir).List(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return fmt.Errorf("%w: no machine files in %s", domain.ErrMachineNotFound, opts.Dir)
		}
		names = all
	}

	reports := make([]validator.Report, 0, len(names))
	for _, name := range names {
		desc, err := ResolveMachine(ctx, opts, name)
		if err != nil {
			reports = append(reports, validator.Report{Machine: name, Errors: []error{err}})
			continue
		}
		if desc.Name == "" {
			desc.Name = name
		}
		reports = append(reports, validator.Validate(desc))
	}

	failed := false
	for _, r := range reports {
		if !r.OK() {
			failed = true
		}
	}

	if opts.JSON {
		if err := writeJSON(out, jsonReports(reports)); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			fmt.Fprint(out, r.String())
		}
	}

	if failed {
		return ErrValidationFailed
	}
	return nil
}

type reportJSON struct {
	Machine  string              `json:"machine"`
	Valid    bool                `json:"valid"`
	Errors   []string            `json:"errors,omitempty"`
	Warnings []validator.Warning `json:"warnings,omitempty"`
}

func jsonReports(reports []validator.Report) []reportJSON {
	out := make([]reportJSON, 0, len(reports))
	for _, r := range reports {
		j := reportJSON{Machine: r.Machine, Valid: r.OK(), Warnings: r.Warnings}
		for _, err := range r.Errors {
			j.Errors = append(j.Errors, err.Error())
		}
		out = append(out, j)
	}
	return out
}

// GraphMachine prints the Mermaid diagram of a machine. When input is set the
// machine is run on it first and the visited states are highlighted.
func GraphMachine(ctx context.Context, opts Options, arg string, input *string, out io.Writer) error {
	desc, err := ResolveMachine(ctx, opts, arg)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if input != nil {
		overlay, err = traceOverlay(ctx, opts, arg, *input)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(out, graph.GenerateMermaid(desc, overlay))
	return err
}

func traceOverlay(ctx context.Context, opts Options, arg, input string) (*graph.Overlay, error) {
	logger := opts.Logger()
	engine, err := createEngine(ctx, opts, arg, logger)
	if err != nil {
		return nil, err
	}

	overlay := &graph.Overlay{}
	seen := map[domain.State]bool{}
	visit := func(s domain.State) {
		if !seen[s] {
			seen[s] = true
			overlay.VisitedStates = append(overlay.VisitedStates, s)
		}
	}
	visit(engine.Description().Initial)

	out, err := engine.Run(ctx, domain.SplitInput(input, opts.Sep), turing.WithObserver(func(step domain.Step) {
		visit(step.State)
	}))
	if out != nil {
		overlay.CurrentState = out.FinalState
	}
	if err != nil {
		if !errors.Is(err, domain.ErrStepLimit) {
			return nil, err
		}
		logger.Warn("Run interrupted, graph shows partial path", "err", err)
	}
	return overlay, nil
}
