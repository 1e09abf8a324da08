package domain

// Key addresses a single entry of the transition table.
type Key struct {
	State  State
	Symbol Symbol
}

// Action is what a rule does once its key matches.
type Action struct {
	Next  State
	Write Symbol
	Move  Direction
}

// Rule is a serializable transition: reading Read in state From writes Write,
// moves the head by Move and enters To.
type Rule struct {
	From  State     `json:"from" yaml:"from" mapstructure:"from"`
	Read  Symbol    `json:"read" yaml:"read" mapstructure:"read"`
	To    State     `json:"to" yaml:"to" mapstructure:"to"`
	Write Symbol    `json:"write" yaml:"write" mapstructure:"write"`
	Move  Direction `json:"move" yaml:"move" mapstructure:"move"`
}

// Key returns the lookup key of the rule.
func (r Rule) Key() Key {
	return Key{State: r.From, Symbol: r.Read}
}

// Action returns the effect of the rule.
func (r Rule) Action() Action {
	return Action{Next: r.To, Write: r.Write, Move: r.Move}
}
