package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the description construction.
type Builder struct {
	desc  domain.Description
	rules []*RuleBuilder
}

// New creates a new builder. The blank symbol defaults to "_".
func New(name string) *Builder {
	return &Builder{
		desc: domain.Description{Name: name, Blank: "_"},
	}
}

// States declares the state set. Without it, states are collected from the
// initial state, the finals and the rules.
func (b *Builder) States(states ...string) *Builder {
	for _, s := range states {
		b.desc.States = append(b.desc.States, domain.State(s))
	}
	return b
}

// Alphabet declares the tape alphabet. Without it, symbols are collected from
// the blank and the rules.
func (b *Builder) Alphabet(symbols ...string) *Builder {
	for _, s := range symbols {
		b.desc.Alphabet = append(b.desc.Alphabet, domain.Symbol(s))
	}
	return b
}

// Blank sets the blank symbol.
func (b *Builder) Blank(s string) *Builder {
	b.desc.Blank = domain.Symbol(s)
	return b
}

// Initial sets the initial state.
func (b *Builder) Initial(s string) *Builder {
	b.desc.Initial = domain.State(s)
	return b
}

// Final adds final states.
func (b *Builder) Final(states ...string) *Builder {
	for _, s := range states {
		b.desc.Finals = append(b.desc.Finals, domain.State(s))
	}
	return b
}

// On starts a rule for (state, read). By default the rule writes back the
// symbol it read.
func (b *Builder) On(state, read string) *RuleBuilder {
	rb := &RuleBuilder{
		builder: b,
		rule: domain.Rule{
			From:  domain.State(state),
			Read:  domain.Symbol(read),
			Write: domain.Symbol(read),
		},
	}
	b.rules = append(b.rules, rb)
	return rb
}

// Description assembles the description without validating it.
func (b *Builder) Description() domain.Description {
	d := b.desc.Clone()
	d.Rules = make([]domain.Rule, 0, len(b.rules))
	for _, rb := range b.rules {
		d.Rules = append(d.Rules, rb.rule)
	}

	if len(d.States) == 0 {
		d.States = collect(func(add func(domain.State)) {
			add(d.Initial)
			for _, r := range d.Rules {
				add(r.From)
				add(r.To)
			}
			for _, f := range d.Finals {
				add(f)
			}
		})
	}
	if len(d.Alphabet) == 0 {
		d.Alphabet = collect(func(add func(domain.Symbol)) {
			for _, r := range d.Rules {
				add(r.Read)
				add(r.Write)
			}
			add(d.Blank)
		})
	}
	return d
}

// Build assembles and validates the description.
func (b *Builder) Build() (domain.Description, error) {
	d := b.Description()
	if err := domain.Validate(d); err != nil {
		return domain.Description{}, err
	}
	return d, nil
}

// BuildLoader builds the description and wraps it in a memory loader.
func (b *Builder) BuildLoader() (*memory.Loader, error) {
	d, err := b.Build()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewLoader(d)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

func collect[T comparable](walk func(add func(T))) []T {
	var zero T
	seen := make(map[T]bool)
	var out []T
	walk(func(v T) {
		if v != zero && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	return out
}

// RuleBuilder configures a single transition.
type RuleBuilder struct {
	builder *Builder
	rule    domain.Rule
}

// Write sets the symbol written under the head.
func (rb *RuleBuilder) Write(s string) *RuleBuilder {
	rb.rule.Write = domain.Symbol(s)
	return rb
}

// Left moves the head left after writing.
func (rb *RuleBuilder) Left() *RuleBuilder {
	return rb.Move(domain.Left)
}

// Right moves the head right after writing.
func (rb *RuleBuilder) Right() *RuleBuilder {
	return rb.Move(domain.Right)
}

// Move sets the head movement.
func (rb *RuleBuilder) Move(d domain.Direction) *RuleBuilder {
	rb.rule.Move = d
	return rb
}

// Go sets the next state and returns to the machine builder.
func (rb *RuleBuilder) Go(state string) *Builder {
	rb.rule.To = domain.State(state)
	return rb.builder
}
