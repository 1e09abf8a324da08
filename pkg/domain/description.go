package domain

import (
	"fmt"
	"slices"
)

// Description is the static definition of a machine. It is built once by a
// loader or the DSL and never mutated afterwards.
type Description struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	States   []State  `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet []Symbol `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Blank    Symbol   `json:"blank" yaml:"blank" mapstructure:"blank"`
	Initial  State    `json:"initial" yaml:"initial" mapstructure:"initial"`
	Finals   []State  `json:"finals" yaml:"finals" mapstructure:"finals"`
	Rules    []Rule   `json:"rules" yaml:"rules" mapstructure:"rules"`
}

// Clone returns a deep copy, so callers cannot mutate a shared Description.
func (d Description) Clone() Description {
	d.States = slices.Clone(d.States)
	d.Alphabet = slices.Clone(d.Alphabet)
	d.Finals = slices.Clone(d.Finals)
	d.Rules = slices.Clone(d.Rules)
	return d
}

// HasState reports whether s is declared in the state set.
func (d Description) HasState(s State) bool {
	return slices.Contains(d.States, s)
}

// IsFinal reports whether s is a final state.
func (d Description) IsFinal(s State) bool {
	return slices.Contains(d.Finals, s)
}

// Validate checks structural soundness and every cross reference: the blank
// belongs to the alphabet, the initial and final states belong to the state
// set, every rule only mentions declared states and symbols and no two rules
// share a (state, symbol) key. Input symbols are not checked here; unknown
// input symbols simply lead to a rejecting halt.
func Validate(d Description) error {
	return validate(d, true)
}

// ValidateStructure only rejects defects that make a description unusable
// (empty blank, rules with missing states or unknown directions). It mirrors
// the permissive behaviour where undeclared states and symbols are tolerated.
func ValidateStructure(d Description) error {
	return validate(d, false)
}

func validate(d Description, strict bool) error {
	var errs []error
	add := func(field, reason string, value any) {
		errs = append(errs, &ValidationError{Field: field, Reason: reason, Value: value})
	}

	if d.Blank == "" {
		add("blank", "required", nil)
	}
	for i, r := range d.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if r.From == "" {
			add(field+".from", "required", nil)
		}
		if r.To == "" {
			add(field+".to", "required", nil)
		}
		if !r.Move.Valid() {
			add(field+".move", "must be L or R", r.Move)
		}
	}

	if strict {
		states := setOf(d.States)
		alphabet := setOf(d.Alphabet)

		if len(d.States) == 0 {
			add("states", "must not be empty", nil)
		}
		if d.Blank != "" && !alphabet[d.Blank] {
			add("blank", "not in alphabet", d.Blank)
		}
		if d.Initial == "" {
			add("initial", "required", nil)
		} else if !states[d.Initial] {
			add("initial", "not in state set", d.Initial)
		}
		for i, f := range d.Finals {
			if !states[f] {
				add(fmt.Sprintf("finals[%d]", i), "not in state set", f)
			}
		}

		seen := make(map[Key]int, len(d.Rules))
		for i, r := range d.Rules {
			field := fmt.Sprintf("rules[%d]", i)
			if first, dup := seen[r.Key()]; dup {
				add(field, fmt.Sprintf("duplicates rules[%d] for (%s, %s)", first, r.From, r.Read), nil)
			} else {
				seen[r.Key()] = i
			}
			if r.From != "" && !states[r.From] {
				add(field+".from", "not in state set", r.From)
			}
			if r.To != "" && !states[r.To] {
				add(field+".to", "not in state set", r.To)
			}
			if !alphabet[r.Read] {
				add(field+".read", "not in alphabet", r.Read)
			}
			if !alphabet[r.Write] {
				add(field+".write", "not in alphabet", r.Write)
			}
		}
	}

	if len(errs) > 0 {
		return &DescriptionError{Name: d.Name, Errors: errs}
	}
	return nil
}

func setOf[T comparable](items []T) map[T]bool {
	set := make(map[T]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
