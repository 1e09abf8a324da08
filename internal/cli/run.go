package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
)

// RunResult is the JSON form of one run printed by `turing run --json`.
type RunResult struct {
	Machine string          `json:"machine"`
	Input   string          `json:"input"`
	Outcome *domain.Outcome `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RunMachine runs the machine named by arg. Inputs given on the command line
// are run once each; without inputs it reads one input per line from in.
func RunMachine(ctx context.Context, opts Options, arg string, inputs []string, in io.Reader, out io.Writer) error {
	logger := opts.Logger()
	engine, err := createEngine(ctx, opts, arg, logger)
	if err != nil {
		return err
	}

	if opts.JSON {
		return runJSON(ctx, opts, engine, inputs, in, out)
	}

	r := turing.NewRunner(in, out)
	r.Headless = opts.Headless || len(inputs) > 0 || !interactive(in, out)
	r.Verbose = opts.Verbose
	r.Color = isTerminal(out)
	r.Sep = opts.Sep
	if !opts.Headless && !opts.Verbose && isTerminal(out) {
		r.Renderer = tui.NewRenderer()
	}

	if len(inputs) == 0 {
		return r.Run(ctx, engine)
	}

	var failed error
	for _, input := range inputs {
		if err := r.RunOnce(ctx, engine, input); err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(out, "interrupted: %v\n", err)
			failed = errors.Join(failed, err)
		}
	}
	return failed
}

func runJSON(ctx context.Context, opts Options, engine *turing.Engine, inputs []string, in io.Reader, out io.Writer) error {
	if len(inputs) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				inputs = append(inputs, line)
			}
		}
	}

	results := make([]RunResult, 0, len(inputs))
	for _, input := range inputs {
		res := RunResult{Machine: engine.Name, Input: input}
		clean, err := turing.SanitizeInput(input)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		outcome, err := engine.Run(ctx, domain.SplitInput(clean, opts.Sep))
		res.Outcome = outcome
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return writeJSON(out, results)
}
