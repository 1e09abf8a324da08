package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Overlay contains run data to highlight on the diagram.
type Overlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
}

// GenerateMermaid renders the transition table of d as a Mermaid state diagram.
// The initial state is entered from [*] and final states exit to [*]. Rules
// sharing source and target are merged into one edge labelled
// "read/write,move" per rule.
func GenerateMermaid(d domain.Description, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, s := range states(d) {
		if id := sanitizeMermaidID(string(s)); id != string(s) {
			fmt.Fprintf(&sb, "    state \"%s\" as %s\n", escapeLabel(string(s)), id)
		}
	}

	if d.Initial != "" {
		fmt.Fprintf(&sb, "    [*] --> %s\n", sanitizeMermaidID(string(d.Initial)))
	}

	type edge struct{ from, to domain.State }
	var order []edge
	labels := make(map[edge][]string)
	for _, r := range d.Rules {
		e := edge{r.From, r.To}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s/%s,%s", r.Read, r.Write, r.Move))
	}
	for _, e := range order {
		fmt.Fprintf(&sb, "    %s --> %s: %s\n",
			sanitizeMermaidID(string(e.from)),
			sanitizeMermaidID(string(e.to)),
			escapeLabel(strings.Join(labels[e], " | ")))
	}

	for _, f := range d.Finals {
		fmt.Fprintf(&sb, "    %s --> [*]\n", sanitizeMermaidID(string(f)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			id := sanitizeMermaidID(string(s))
			if id == "" || seen[id] || s == overlay.CurrentState {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited\n", id)
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current\n", sanitizeMermaidID(string(overlay.CurrentState)))
		}
	}

	return sb.String()
}

// states returns declared states followed by any state only named by rules.
func states(d domain.Description) []domain.State {
	seen := make(map[domain.State]bool)
	var out []domain.State
	add := func(s domain.State) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range d.States {
		add(s)
	}
	add(d.Initial)
	for _, r := range d.Rules {
		add(r.From)
		add(r.To)
	}
	for _, f := range d.Finals {
		add(f)
	}
	return out
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

// escapeLabel keeps labels on one line and away from Mermaid's separators.
func escapeLabel(s string) string {
	r := strings.NewReplacer(":", "#58;", "\"", "#quot;", ";", "#59;", "\n", " ")
	return r.Replace(s)
}
