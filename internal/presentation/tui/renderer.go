package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Summary formats an outcome as a markdown block.
func Summary(machine string, input []domain.Symbol, out domain.Outcome) string {
	var sb strings.Builder
	verdict := "rejected"
	if out.Accepted {
		verdict = "accepted"
	}
	if machine != "" {
		fmt.Fprintf(&sb, "### %s\n\n", machine)
	}
	fmt.Fprintf(&sb, "**%s** `%s` in %d steps\n\n", verdict, codeSpan(domain.JoinSymbols(input)), out.Steps)
	sb.WriteString("| final state | tape | head |\n")
	sb.WriteString("|---|---|---|\n")
	fmt.Fprintf(&sb, "| `%s` | `%s` | %d |\n", codeSpan(string(out.FinalState)), codeSpan(out.Tape.Content()), out.Tape.Head)
	return sb.String()
}

// codeSpan keeps empty values visible inside backticks.
func codeSpan(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "`", "'")
}
