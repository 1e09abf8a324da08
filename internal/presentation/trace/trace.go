// Package trace prints the step-by-step listing of a run: the tape with a
// caret under the head after every transition, then the verdict.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes a run trace to an io.Writer.
type Printer struct {
	w   io.Writer
	out *termenv.Output
}

// Option configures a Printer.
type Option func(*Printer)

// WithColor highlights the head cell using the terminal's colour profile.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		if enabled {
			p.out = termenv.NewOutput(p.w)
		} else {
			p.out = termenv.NewOutput(p.w, termenv.WithProfile(termenv.Ascii))
		}
	}
}

// New creates a plain-text printer.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start prints the input and the starting configuration.
func (p *Printer) Start(input []domain.Symbol, state domain.State, tape domain.Snapshot) {
	fmt.Fprintf(p.w, "Input: %s\n", domain.JoinSymbols(input))
	fmt.Fprintf(p.w, "Initial state: %s\n", state)
	p.tape(tape)
}

// Step prints one applied transition. Its signature matches turing.WithObserver.
func (p *Printer) Step(step domain.Step) {
	fmt.Fprintf(p.w, "\nStep %d:\n", step.Index)
	fmt.Fprintf(p.w, "State: %s\n", step.State)
	p.tape(step.Tape)
}

// Halt prints the verdict.
func (p *Printer) Halt(out domain.Outcome) {
	fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("=", 50))
	verdict := p.out.String("rejects").Foreground(p.out.Color("1"))
	if out.Accepted {
		verdict = p.out.String("accepts").Foreground(p.out.Color("2"))
	}
	fmt.Fprintf(p.w, "Machine %s the input.\n", verdict)
	fmt.Fprintf(p.w, "Final state: %s\n", out.FinalState)
	fmt.Fprintf(p.w, "Steps: %d\n", out.Steps)
}

func (p *Printer) tape(s domain.Snapshot) {
	_, caret := s.Lines()
	fmt.Fprintf(p.w, "Tape: %s\n", p.highlight(s))
	fmt.Fprintf(p.w, "Head: %s\n", caret)
}

// highlight renders the cells with the head cell in reverse video.
func (p *Printer) highlight(s domain.Snapshot) string {
	var sb strings.Builder
	for i, c := range s.Cells {
		if i == s.Head {
			sb.WriteString(p.out.String(string(c)).Reverse().Bold().String())
			continue
		}
		sb.WriteString(string(c))
	}
	return sb.String()
}
