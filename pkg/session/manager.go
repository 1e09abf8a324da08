package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// ErrSealed is returned when a session was sealed by an encrypting store and
// the manager's store cannot open it.
var ErrSealed = errors.New("session is sealed")

// EngineSource resolves machine names, e.g. a *registry.Registry.
type EngineSource interface {
	Engine(ctx context.Context, name string) (*turing.Engine, error)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store   ports.StateStore
	engines EngineSource

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, engines EngineSource, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		engines: engines,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates and persists a session for machine on input. No transition
// is applied yet.
func (m *Manager) Start(ctx context.Context, machine string, input []domain.Symbol, opts ...turing.RunOption) (*domain.RunState, error) {
	eng, err := m.engines.Engine(ctx, machine)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	var rs *domain.RunState
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		rs, err = eng.Begin(ctx, id, input, opts...)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, id, rs); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session started", "session_id", id, "machine", machine)
	return rs, nil
}

// Step applies up to n transitions to the session and persists the result.
func (m *Manager) Step(ctx context.Context, sessionID string, n int) (*domain.RunState, error) {
	var rs *domain.RunState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		rs, err = m.loadOpen(ctx, sessionID)
		if err != nil {
			return err
		}
		if rs.Halted() {
			return nil
		}

		eng, err := m.engines.Engine(ctx, rs.Machine)
		if err != nil {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}

		advanceErr := eng.Advance(ctx, rs, n)
		if advanceErr != nil && !errors.Is(advanceErr, domain.ErrStepLimit) {
			return advanceErr
		}
		if err := m.store.Save(ctx, sessionID, rs); err != nil {
			m.logger.Error("failed to save session", "session_id", sessionID, "error", err)
			return fmt.Errorf("failed to save session: %w", err)
		}
		return advanceErr
	})
	return rs, err
}

// Get loads a session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.RunState, error) {
	var rs *domain.RunState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		rs, err = m.loadOpen(ctx, sessionID)
		return err
	})
	return rs, err
}

func (m *Manager) loadOpen(ctx context.Context, sessionID string) (*domain.RunState, error) {
	rs, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(rs.Sealed) > 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSealed)
	}
	return rs, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			m.logger.Error("failed to acquire distributed lock", "session_id", sessionID, "error", err)
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so cancellation does not leak the lock until TTL.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
