package turing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
)

// Engine is the high-level entry point for the library.
// It wraps a compiled machine and is safe for concurrent use: every run owns
// its own tape and state.
type Engine struct {
	program    *runtime.Program
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	maxSteps   int
	permissive bool
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps bounds every run to n transitions. Zero means unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithPermissive skips cross-reference validation. Only structural defects
// are reported and, on duplicate (state, symbol) keys, the last rule wins.
func WithPermissive() Option {
	return func(e *Engine) {
		e.permissive = true
	}
}

// New validates and compiles desc.
func New(desc domain.Description, opts ...Option) (*Engine, error) {
	eng := &Engine{Name: desc.Name}
	for _, opt := range opts {
		opt(eng)
	}

	validate := domain.Validate
	if eng.permissive {
		validate = domain.ValidateStructure
	}
	if err := validate(desc); err != nil {
		return nil, err
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("machine", eng.Name)
	}

	eng.program = runtime.Compile(desc)
	return eng, nil
}

// Load reads a machine file (YAML or JSON) and builds an Engine from it.
func Load(path string, opts ...Option) (*Engine, error) {
	desc, err := file.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	return New(desc, opts...)
}

// Description returns a copy of the machine definition.
func (e *Engine) Description() domain.Description {
	return e.program.Description()
}

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	start    domain.State
	observer func(domain.Step)
	limit    int
}

// WithStart starts the run in s instead of the initial state.
func WithStart(s domain.State) RunOption {
	return func(c *runConfig) {
		c.start = s
	}
}

// WithObserver receives every applied transition with a tape snapshot.
func WithObserver(fn func(domain.Step)) RunOption {
	return func(c *runConfig) {
		c.observer = fn
	}
}

// WithStepLimit lowers the engine's step limit for one run. It never raises
// it: n <= 0, or n above the WithMaxSteps bound, leaves the bound in place.
func WithStepLimit(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 && (c.limit <= 0 || n < c.limit) {
			c.limit = n
		}
	}
}

func (e *Engine) runConfig(opts []RunOption) (runConfig, error) {
	cfg := runConfig{start: e.program.Initial(), limit: e.maxSteps}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !e.permissive && !e.program.Description().HasState(cfg.start) {
		return cfg, fmt.Errorf("%w: %q", domain.ErrUnknownState, cfg.start)
	}
	return cfg, nil
}

// Run executes the machine on input until it halts.
// A halt is never an error: acceptance and rejection are reported on the
// Outcome. An error means the run was interrupted, by ctx or by the step
// limit, and the returned Outcome describes where it stopped.
func (e *Engine) Run(ctx context.Context, input []domain.Symbol, opts ...RunOption) (*domain.Outcome, error) {
	cfg, err := e.runConfig(opts)
	if err != nil {
		return nil, err
	}

	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunStart),
			Input:     input,
			Start:     cfg.start,
		})
	}
	e.logger.Debug("run started", "input", domain.JoinSymbols(input), "start", cfg.start)

	m := runtime.NewMachine(e.program)
	out, err := m.Run(input, e.runtimeOptions(ctx, cfg, nil)...)
	if err != nil {
		e.logger.Warn("run interrupted", "steps", out.Steps, "state", out.FinalState, "error", err)
		return &out, err
	}

	e.halted(ctx, out)
	return &out, nil
}

// RunString splits input into one symbol per character and runs it.
func (e *Engine) RunString(ctx context.Context, input string, opts ...RunOption) (*domain.Outcome, error) {
	return e.Run(ctx, domain.SplitInput(input, ""), opts...)
}

// Begin creates the persisted form of a new run without applying any step.
func (e *Engine) Begin(ctx context.Context, sessionID string, input []domain.Symbol, opts ...RunOption) (*domain.RunState, error) {
	cfg, err := e.runConfig(opts)
	if err != nil {
		return nil, err
	}

	m := runtime.NewMachine(e.program)
	m.Reset(input, cfg.start)

	now := time.Now()
	rs := &domain.RunState{
		SessionID: sessionID,
		Machine:   e.Name,
		Input:     input,
		State:     m.State(),
		Tape:      m.Snapshot(),
		Status:    m.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunStart),
			Input:     input,
			Start:     cfg.start,
		})
	}
	e.logger.Debug("session started", "session_id", sessionID, "start", cfg.start)
	if rs.Halted() {
		e.halted(ctx, rs.Outcome())
	}
	return rs, nil
}

// Advance applies up to n transitions to rs in place, then records whether the
// run has halted. A halted run is left untouched. The step limit counts every
// transition of the session, not only those of this call. When interrupted,
// rs still reflects the transitions applied before the error.
func (e *Engine) Advance(ctx context.Context, rs *domain.RunState, n int, opts ...RunOption) error {
	if rs.Halted() || n <= 0 {
		return nil
	}
	cfg, err := e.runConfig(opts)
	if err != nil {
		return err
	}

	m := runtime.NewMachine(e.program)
	if err := m.Restore(rs); err != nil {
		return fmt.Errorf("failed to restore session %s: %w", rs.SessionID, err)
	}

	base := rs.Steps
	pause := func(steps int) error {
		if steps-base >= n {
			return errPaused
		}
		return nil
	}

	_, err = m.Resume(e.runtimeOptions(ctx, cfg, pause)...)

	rs.State = m.State()
	rs.Tape = m.Snapshot()
	rs.Steps = m.Steps()
	rs.Status = m.Status()
	rs.UpdatedAt = time.Now()

	if err != nil && !errors.Is(err, errPaused) {
		e.logger.Warn("session interrupted", "session_id", rs.SessionID, "steps", rs.Steps, "error", err)
		return err
	}
	if rs.Halted() {
		e.halted(ctx, rs.Outcome())
	}
	return nil
}

var errPaused = errors.New("paused")

// runtimeOptions translates a run configuration. The guard checks ctx, then
// the step limit, then pause when given.
func (e *Engine) runtimeOptions(ctx context.Context, cfg runConfig, pause runtime.Guard) []runtime.RunOption {
	guard := func(steps int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.limit > 0 && steps >= cfg.limit {
			return fmt.Errorf("%w: %d", domain.ErrStepLimit, cfg.limit)
		}
		if pause != nil {
			return pause(steps)
		}
		return nil
	}
	opts := []runtime.RunOption{runtime.WithStart(cfg.start), runtime.WithGuard(guard)}

	if cfg.observer != nil || e.hooks.OnStep != nil {
		opts = append(opts, runtime.WithObserver(func(step domain.Step) {
			if cfg.observer != nil {
				cfg.observer(step)
			}
			if e.hooks.OnStep != nil {
				e.hooks.OnStep(ctx, &domain.StepEvent{EventBase: e.event(domain.EventStep), Step: step})
			}
		}))
	}
	return opts
}

func (e *Engine) halted(ctx context.Context, out domain.Outcome) {
	e.logger.Debug("run halted", "status", out.Status, "steps", out.Steps, "state", out.FinalState)
	if e.hooks.OnHalt != nil {
		e.hooks.OnHalt(ctx, &domain.HaltEvent{EventBase: e.event(domain.EventHalt), Outcome: out})
	}
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Machine: e.Name}
}
