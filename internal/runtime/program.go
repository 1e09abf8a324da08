// Package runtime implements the Turing machine transition engine: a compiled,
// immutable Program and the Machine that steps a tape through it.
package runtime

import (
	"github.com/aretw0/turing/pkg/domain"
)

// Program is the compiled, read-only form of a Description. It can be shared
// by any number of Machines running concurrently.
type Program struct {
	desc   domain.Description
	table  map[domain.Key]domain.Action
	finals map[domain.State]struct{}
}

// Compile builds the lookup table of d. It does not validate d; when two rules
// share a key the later one wins.
func Compile(d domain.Description) *Program {
	p := &Program{
		desc:   d.Clone(),
		table:  make(map[domain.Key]domain.Action, len(d.Rules)),
		finals: make(map[domain.State]struct{}, len(d.Finals)),
	}
	for _, r := range d.Rules {
		p.table[r.Key()] = r.Action()
	}
	for _, f := range d.Finals {
		p.finals[f] = struct{}{}
	}
	return p
}

// Lookup returns the action for (s, sym).
func (p *Program) Lookup(s domain.State, sym domain.Symbol) (domain.Action, bool) {
	a, ok := p.table[domain.Key{State: s, Symbol: sym}]
	return a, ok
}

// IsFinal reports whether s is a final state.
func (p *Program) IsFinal(s domain.State) bool {
	_, ok := p.finals[s]
	return ok
}

// Name returns the machine name.
func (p *Program) Name() string { return p.desc.Name }

// Blank returns the blank symbol.
func (p *Program) Blank() domain.Symbol { return p.desc.Blank }

// Initial returns the initial state.
func (p *Program) Initial() domain.State { return p.desc.Initial }

// Len returns the number of distinct rules.
func (p *Program) Len() int { return len(p.table) }

// Description returns a copy of the compiled description.
func (p *Program) Description() domain.Description {
	return p.desc.Clone()
}
