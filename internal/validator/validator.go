// Package validator reports defects of a machine description: hard errors
// from domain.Validate and reachability warnings that do not prevent a run.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// WarningKind classifies a Warning.
type WarningKind string

const (
	Unreachable   WarningKind = "unreachable"    // no path from the initial state
	ShadowedRule  WarningKind = "shadowed_rule"  // rule on a final state, never applied
	DeadEnd       WarningKind = "dead_end"       // reachable non-final state without rules
	NoAcceptState WarningKind = "no_accept_path" // no final state is reachable
)

// Warning is a non-fatal finding.
type Warning struct {
	Kind    WarningKind
	State   domain.State
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// Report aggregates the findings for one description.
type Report struct {
	Machine  string
	Errors   []error
	Warnings []Warning
}

// OK reports whether the description can be compiled.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

func (r Report) String() string {
	var sb strings.Builder
	if r.OK() {
		fmt.Fprintf(&sb, "%s: valid", r.Machine)
	} else {
		fmt.Fprintf(&sb, "%s: %d errors", r.Machine, len(r.Errors))
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, ", %d warnings", len(r.Warnings))
	}
	sb.WriteString("\n")
	for _, err := range r.Errors {
		fmt.Fprintf(&sb, "  error: %v\n", err)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "  warning: %s\n", w)
	}
	return sb.String()
}

// Validate checks d. Reachability is only analysed when d is well formed.
func Validate(d domain.Description) Report {
	report := Report{Machine: d.Name}
	if err := domain.Validate(d); err != nil {
		report.Errors = domain.ValidationErrors(err)
		if report.Errors == nil {
			report.Errors = []error{err}
		}
		return report
	}
	report.Warnings = reachability(d)
	return report
}

func reachability(d domain.Description) []Warning {
	outgoing := make(map[domain.State][]domain.State)
	for _, r := range d.Rules {
		outgoing[r.From] = append(outgoing[r.From], r.To)
	}

	// Final states are absorbing: their rules are never followed.
	visited := map[domain.State]bool{d.Initial: true}
	queue := []domain.State{d.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if d.IsFinal(current) {
			continue
		}
		for _, next := range outgoing[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var warnings []Warning
	for _, s := range d.States {
		switch {
		case !visited[s]:
			warnings = append(warnings, Warning{Unreachable, s, fmt.Sprintf("state %q is unreachable from %q", s, d.Initial)})
		case !d.IsFinal(s) && len(outgoing[s]) == 0:
			warnings = append(warnings, Warning{DeadEnd, s, fmt.Sprintf("state %q has no rules and always rejects", s)})
		}
	}

	for i, r := range d.Rules {
		if d.IsFinal(r.From) {
			warnings = append(warnings, Warning{ShadowedRule, r.From, fmt.Sprintf("rules[%d] leaves final state %q and is never applied", i, r.From)})
		}
	}

	if !slices.ContainsFunc(d.Finals, func(f domain.State) bool { return visited[f] }) {
		warnings = append(warnings, Warning{NoAcceptState, d.Initial, "no final state is reachable; every input is rejected or loops"})
	}
	return warnings
}
