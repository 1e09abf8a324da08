package turing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/internal/presentation/trace"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
)

// Runner reads input strings line by line and runs each through an Engine.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool   // no prompt, one line of output per input
	Verbose  bool   // print the full step trace
	Color    bool   // highlight the head cell in traces
	Sep      string // input symbol separator; empty means one symbol per character
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner over the given IO.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run executes the read-run loop until EOF, "quit" or "exit".
// Step-limit interruptions are reported and the loop continues; a cancelled
// context ends it.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	if !r.Headless {
		fmt.Fprintf(r.Output, "--- %s (type 'quit' to exit) ---\n", engine.Name)
	}

	scanner := bufio.NewScanner(r.Input)
	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "input> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}

		if err := r.RunOnce(ctx, engine, line); err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(r.Output, "interrupted: %v\n", err)
		}
	}
}

// RunOnce runs a single input string and writes its result.
func (r *Runner) RunOnce(ctx context.Context, engine *Engine, line string) error {
	line, err := SanitizeInput(line)
	if err != nil {
		return err
	}
	input := domain.SplitInput(line, r.Sep)

	var opts []RunOption
	var printer *trace.Printer
	if r.Verbose {
		printer = trace.New(r.Output, trace.WithColor(r.Color))
		desc := engine.Description()
		start := domain.Snapshot{Cells: append(append([]domain.Symbol{}, input...), desc.Blank), Blank: desc.Blank}
		printer.Start(input, desc.Initial, start)
		opts = append(opts, WithObserver(printer.Step))
	}

	out, err := engine.Run(ctx, input, opts...)
	if err != nil {
		if errors.Is(err, domain.ErrStepLimit) && out != nil {
			return fmt.Errorf("%w after %d steps in state %s", err, out.Steps, out.FinalState)
		}
		return err
	}

	if printer != nil {
		printer.Halt(*out)
		return nil
	}
	return r.write(engine.Name, input, *out)
}

func (r *Runner) write(machine string, input []domain.Symbol, out domain.Outcome) error {
	if r.Renderer == nil {
		verdict := "rejected"
		if out.Accepted {
			verdict = "accepted"
		}
		_, err := fmt.Fprintf(r.Output, "%s steps=%d state=%s tape=%s\n", verdict, out.Steps, out.FinalState, out.Tape.Content())
		return err
	}

	rendered, err := r.Renderer(tui.Summary(machine, input, out))
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	_, err = fmt.Fprint(r.Output, rendered)
	return err
}
