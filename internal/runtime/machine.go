package runtime

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Observer receives every applied transition.
type Observer func(domain.Step)

// Guard is consulted before each transition with the number of transitions
// applied so far. A non-nil error stops the run without halting it.
type Guard func(steps int) error

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	start    domain.State
	observer Observer
	guard    Guard
}

// WithStart overrides the initial state for this run.
func WithStart(s domain.State) RunOption {
	return func(c *runConfig) {
		c.start = s
	}
}

// WithObserver registers a per-step callback.
func WithObserver(o Observer) RunOption {
	return func(c *runConfig) {
		c.observer = o
	}
}

// WithGuard registers a callback that can interrupt the run between steps.
func WithGuard(g Guard) RunOption {
	return func(c *runConfig) {
		c.guard = g
	}
}

// Machine is the mutable run state (current state and tape) bound to a Program.
// It must be driven by a single goroutine.
type Machine struct {
	program *Program
	state   domain.State
	tape    *tape.Tape
	steps   int
}

// NewMachine creates a machine in the program's initial state over an empty tape.
func NewMachine(p *Program) *Machine {
	return &Machine{
		program: p,
		state:   p.Initial(),
		tape:    tape.New(p.Blank()),
	}
}

// Reset loads input onto the tape and moves the machine to start.
func (m *Machine) Reset(input []domain.Symbol, start domain.State) {
	m.tape.Initialize(input)
	m.state = start
	m.steps = 0
}

// Restore resumes a previously persisted configuration.
func (m *Machine) Restore(rs *domain.RunState) error {
	if err := m.tape.Restore(rs.Tape); err != nil {
		return err
	}
	m.state = rs.State
	m.steps = rs.Steps
	return nil
}

// State returns the current control state.
func (m *Machine) State() domain.State { return m.state }

// Steps returns the number of transitions applied since the last Reset.
func (m *Machine) Steps() int { return m.steps }

// Snapshot returns a copy of the tape.
func (m *Machine) Snapshot() domain.Snapshot { return m.tape.Snapshot() }

// Status reports what the next Step would do without doing it.
func (m *Machine) Status() domain.ExecutionStatus {
	_, status := m.next()
	return status
}

// Step applies one transition. It returns StatusAccepted without touching the
// tape when the current state is final, StatusRejected when no rule matches
// the symbol under the head, and StatusRunning otherwise.
func (m *Machine) Step() domain.ExecutionStatus {
	act, status := m.next()
	if status.Halted() {
		return status
	}
	m.apply(act)
	return status
}

// Run resets the machine with input and steps it until it halts. The loop is
// unbounded; callers that need a bound supply a Guard. Run only returns an
// error when the guard does, together with the outcome reached so far.
func (m *Machine) Run(input []domain.Symbol, opts ...RunOption) (domain.Outcome, error) {
	cfg := newRunConfig(m.program.Initial(), opts)
	m.Reset(input, cfg.start)
	return m.loop(cfg)
}

// Resume continues from the current configuration. WithStart is ignored.
func (m *Machine) Resume(opts ...RunOption) (domain.Outcome, error) {
	return m.loop(newRunConfig(m.state, opts))
}

func newRunConfig(start domain.State, opts []RunOption) runConfig {
	cfg := runConfig{start: start}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (m *Machine) loop(cfg runConfig) (domain.Outcome, error) {
	for {
		act, status := m.next()
		if status.Halted() {
			return m.Outcome(status), nil
		}
		if cfg.guard != nil {
			if err := cfg.guard(m.steps); err != nil {
				return m.Outcome(domain.StatusRunning), err
			}
		}
		if cfg.observer == nil {
			m.apply(act)
			continue
		}
		step := domain.Step{From: m.state, Read: m.tape.Read(), State: act.Next, Write: act.Write, Move: act.Move}
		m.apply(act)
		step.Index = m.steps
		step.Tape = m.tape.Snapshot()
		cfg.observer(step)
	}
}

// Outcome classifies the current configuration with the given status.
func (m *Machine) Outcome(status domain.ExecutionStatus) domain.Outcome {
	return domain.Outcome{
		Accepted:   m.program.IsFinal(m.state) && status.Halted(),
		Status:     status,
		Steps:      m.steps,
		FinalState: m.state,
		Tape:       m.tape.Snapshot(),
	}
}

// next decides the fate of the upcoming step. Final states are absorbing and
// checked before any rule.
func (m *Machine) next() (domain.Action, domain.ExecutionStatus) {
	if m.program.IsFinal(m.state) {
		return domain.Action{}, domain.StatusAccepted
	}
	act, ok := m.program.Lookup(m.state, m.tape.Read())
	if !ok {
		return domain.Action{}, domain.StatusRejected
	}
	return act, domain.StatusRunning
}

func (m *Machine) apply(act domain.Action) {
	m.tape.Write(act.Write)
	m.state = act.Next
	m.tape.Move(act.Move)
	m.steps++
}
