// Package compiler converts textual machine definitions into domain values.
package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// arrows are the accepted separators between the key and the action of a rule.
var arrows = []string{"→", "->"}

// ParseRule parses "state,symbol -> state,symbol,direction". Whitespace around
// every field is ignored and the direction is case-insensitive.
func ParseRule(line string) (domain.Rule, error) {
	left, right, ok := splitArrow(line)
	if !ok {
		return domain.Rule{}, ruleError(line, "missing arrow")
	}

	key := strings.Split(left, ",")
	act := strings.Split(right, ",")
	if len(key) != 2 || len(act) != 3 {
		return domain.Rule{}, ruleError(line, "expected state,symbol -> state,symbol,direction")
	}

	move, err := domain.ParseDirection(act[2])
	if err != nil {
		return domain.Rule{}, ruleError(line, err.Error())
	}

	r := domain.Rule{
		From:  domain.State(strings.TrimSpace(key[0])),
		Read:  domain.Symbol(strings.TrimSpace(key[1])),
		To:    domain.State(strings.TrimSpace(act[0])),
		Write: domain.Symbol(strings.TrimSpace(act[1])),
		Move:  move,
	}
	if r.From == "" || r.To == "" || r.Read == "" || r.Write == "" {
		return domain.Rule{}, ruleError(line, "empty field")
	}
	return r, nil
}

// ParseRules parses one rule per non-empty line. Lines starting with '#' are comments.
func ParseRules(text string) ([]domain.Rule, error) {
	var rules []domain.Rule
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// FormatRule renders r in the syntax accepted by ParseRule.
func FormatRule(r domain.Rule) string {
	return fmt.Sprintf("%s,%s -> %s,%s,%s", r.From, r.Read, r.To, r.Write, r.Move)
}

func splitArrow(line string) (string, string, bool) {
	for _, arrow := range arrows {
		if left, right, ok := strings.Cut(line, arrow); ok {
			return left, right, true
		}
	}
	return "", "", false
}

func ruleError(line, reason string) error {
	return fmt.Errorf("%w %q: %s", domain.ErrInvalidRule, strings.TrimSpace(line), reason)
}
