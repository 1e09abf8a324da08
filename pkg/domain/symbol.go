package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Symbol is an atomic tape token. Symbols are usually a single character but
// may be longer; rendering concatenates them.
type Symbol string

// State labels a control state of the machine.
type State string

// Direction is the head movement applied after a write.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// Valid reports whether d is one of the supported movements.
func (d Direction) Valid() bool {
	return d == Left || d == Right
}

// Delta returns the head offset for d. Only L and R reach a running machine:
// Validate and ValidateStructure both reject any other direction, so the
// zero offset for unknown values is never applied.
func (d Direction) Delta() int {
	switch d {
	case Left:
		return -1
	case Right:
		return 1
	default:
		return 0
	}
}

// ParseDirection accepts "L", "R", "left" and "right" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT":
		return Left, nil
	case "R", "RIGHT":
		return Right, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidRule, s)
	}
}

// SplitInput turns an input string into symbols. With an empty separator every
// rune becomes one symbol; otherwise the string is split on sep and empty
// fields are dropped.
func SplitInput(s, sep string) []Symbol {
	if sep == "" {
		out := make([]Symbol, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			out = append(out, Symbol(r))
		}
		return out
	}

	var out []Symbol
	for _, field := range strings.Split(s, sep) {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, Symbol(field))
		}
	}
	return out
}

// JoinSymbols concatenates symbols without a separator.
func JoinSymbols(symbols []Symbol) string {
	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(string(s))
	}
	return sb.String()
}
