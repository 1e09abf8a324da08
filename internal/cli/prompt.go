package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
)

// ErrAborted is returned when the input ends before the machine is complete.
var ErrAborted = errors.New("machine definition aborted")

// Prompter asks for a machine definition one field at a time.
// When Strict is set, answers naming undeclared states or symbols are
// reported and asked again instead of failing validation at the end.
type Prompter struct {
	Strict bool

	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *Prompter) askList(question string) ([]string, error) {
	answer, err := p.ask(question)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, item := range strings.Split(answer, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// askStates asks until every answered state is declared in d.
func (p *Prompter) askStates(d domain.Description, question string) ([]domain.State, error) {
	for {
		items, err := p.askList(question)
		if err != nil {
			return nil, err
		}
		states := make([]domain.State, 0, len(items))
		var unknown []string
		for _, item := range items {
			s := domain.State(item)
			if p.Strict && !d.HasState(s) {
				unknown = append(unknown, item)
			}
			states = append(states, s)
		}
		if len(unknown) == 0 {
			return states, nil
		}
		fmt.Fprintf(p.out, "unknown state %s; declared: %v\n", strings.Join(unknown, ", "), d.States)
	}
}

// undeclared names the first state or symbol of r missing from d.
func undeclared(d domain.Description, r domain.Rule) string {
	for _, s := range []domain.State{r.From, r.To} {
		if !d.HasState(s) {
			return fmt.Sprintf("unknown state %s", s)
		}
	}
	for _, sym := range []domain.Symbol{r.Read, r.Write} {
		if !slices.Contains(d.Alphabet, sym) {
			return fmt.Sprintf("unknown symbol %s", sym)
		}
	}
	return ""
}

// Describe prompts for every part of a Description. Rules are read until
// "fin" or "end"; a malformed rule is reported and asked again. Entering a
// rule for a (state, symbol) pair that already has one replaces it.
func (p *Prompter) Describe(name string) (domain.Description, error) {
	d := domain.Description{Name: name}

	for {
		states, err := p.askList("States (comma separated): ")
		if err != nil {
			return d, err
		}
		for _, s := range states {
			d.States = append(d.States, domain.State(s))
		}
		if len(d.States) > 0 || !p.Strict {
			break
		}
		fmt.Fprintln(p.out, "at least one state is required")
	}

	symbols, err := p.askList("Tape alphabet (comma separated): ")
	if err != nil {
		return d, err
	}
	for _, s := range symbols {
		d.Alphabet = append(d.Alphabet, domain.Symbol(s))
	}

	blank, err := p.ask("Blank symbol (default '_'): ")
	if err != nil {
		return d, err
	}
	if blank == "" {
		blank = "_"
	}
	d.Blank = domain.Symbol(blank)
	if !slices.Contains(d.Alphabet, d.Blank) {
		d.Alphabet = append(d.Alphabet, d.Blank)
	}

	for d.Initial == "" {
		initial, err := p.askStates(d, "Initial state: ")
		if err != nil {
			return d, err
		}
		if len(initial) == 1 {
			d.Initial = initial[0]
		} else {
			fmt.Fprintln(p.out, "exactly one initial state is required")
		}
	}

	d.Finals, err = p.askStates(d, "Final states (comma separated): ")
	if err != nil {
		return d, err
	}

	fmt.Fprintln(p.out, "Transitions as 'state,symbol -> state,symbol,direction' (L or R).")
	fmt.Fprintln(p.out, "Type 'fin' to finish.")
	index := make(map[domain.Key]int)
	for {
		line, err := p.ask("Transition: ")
		if err != nil {
			return d, err
		}
		switch strings.ToLower(line) {
		case "fin", "end":
			return d, nil
		case "":
			continue
		}
		rule, err := compiler.ParseRule(line)
		if err != nil {
			fmt.Fprintf(p.out, "invalid transition: %v\n", err)
			continue
		}
		if p.Strict {
			if reason := undeclared(d, rule); reason != "" {
				fmt.Fprintf(p.out, "invalid transition: %s\n", reason)
				continue
			}
		}
		if i, ok := index[rule.Key()]; ok {
			d.Rules[i] = rule
			fmt.Fprintf(p.out, "replaced transition for (%s, %s)\n", rule.From, rule.Read)
			continue
		}
		index[rule.Key()] = len(d.Rules)
		d.Rules = append(d.Rules, rule)
	}
}

// NewMachine runs the interactive builder and writes the result to
// <dir>/<name>.yaml. An invalid definition is not written unless permissive.
func NewMachine(ctx context.Context, opts Options, name string, in io.Reader, out io.Writer) (string, error) {
	if name == "" {
		return "", errors.New("machine name is required")
	}
	path := machinePath(opts.Dir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	prompter := NewPrompter(in, out)
	prompter.Strict = !opts.Permissive
	d, err := prompter.Describe(name)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	check := domain.Validate
	if opts.Permissive {
		check = domain.ValidateStructure
	}
	if err := check(d); err != nil {
		return "", err
	}

	if err := file.WriteFile(path, d); err != nil {
		return "", err
	}
	printSystemMessage(out, "Machine '%s' written to %s", name, path)
	return path, nil
}
