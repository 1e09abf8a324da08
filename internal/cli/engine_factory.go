package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/registry"
)

// engineOptions translates CLI options into engine options.
func engineOptions(opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) []turing.Option {
	engineOpts := []turing.Option{turing.WithLogger(logger)}

	maxSteps := opts.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	if maxSteps > 0 {
		engineOpts = append(engineOpts, turing.WithMaxSteps(maxSteps))
	}
	if opts.Permissive {
		engineOpts = append(engineOpts, turing.WithPermissive())
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		engineOpts = append(engineOpts, turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, turing.WithLifecycleHooks(h))
	}
	return engineOpts
}

// ResolveMachine finds the machine named by arg: a path to a machine file, a
// name inside opts.Dir, or, when arg is empty, the only machine in opts.Dir.
func ResolveMachine(ctx context.Context, opts Options, arg string) (domain.Description, error) {
	if arg != "" {
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			return file.LoadFile(arg)
		}
		return file.NewLoader(opts.Dir).Load(ctx, arg)
	}

	name, err := determineMachine(ctx, opts.Dir)
	if err != nil {
		return domain.Description{}, err
	}
	return file.NewLoader(opts.Dir).Load(ctx, name)
}

// determineMachine picks the default machine of a directory: "main" when it
// exists, otherwise the only machine present.
func determineMachine(ctx context.Context, dir string) (string, error) {
	names, err := file.NewLoader(dir).List(ctx)
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("%w: no machine files in %s", domain.ErrMachineNotFound, dir)
	case 1:
		return names[0], nil
	}
	for _, n := range names {
		if n == "main" {
			return n, nil
		}
	}
	return "", fmt.Errorf("%d machines in %s; name one of %v", len(names), dir, names)
}

// createEngine loads and compiles the machine named by arg.
func createEngine(ctx context.Context, opts Options, arg string, logger *slog.Logger) (*turing.Engine, error) {
	desc, err := ResolveMachine(ctx, opts, arg)
	if err != nil {
		return nil, err
	}
	engine, err := turing.New(desc, engineOptions(opts, logger)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// NewRegistry serves every machine of opts.Dir.
func NewRegistry(opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) *registry.Registry {
	return registry.New(file.NewLoader(opts.Dir), engineOptions(opts, logger, hooks...)...)
}

// NewSessionStore builds the configured session store, sealed with
// opts.SessionKey when one is set. The locker is nil unless the store is
// shared between processes.
func NewSessionStore(opts Options) (ports.StateStore, ports.DistributedLocker, error) {
	store, locker, err := newBackingStore(opts)
	if err != nil || opts.SessionKey == "" {
		return store, locker, err
	}

	key, err := base64.StdEncoding.DecodeString(opts.SessionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("session key is not base64: %w", err)
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, nil, err
	}
	return middleware.Chain(store, seal), locker, nil
}

func newBackingStore(opts Options) (ports.StateStore, ports.DistributedLocker, error) {
	switch opts.Store {
	case "", "file":
		return file.NewStore(opts.SessionDir()), nil, nil
	case "memory":
		return memory.NewStore(), nil, nil
	case "redis":
		if opts.RedisAddr == "" {
			return nil, nil, errors.New("--redis-addr is required for the redis store")
		}
		store := redis.New(opts.RedisAddr, opts.RedisPass, 0)
		return store, redis.NewLocker(store.Client(), redis.DefaultPrefix), nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want file, memory or redis)", opts.Store)
	}
}

// machinePath returns where `turing new` writes name.
func machinePath(dir, name string) string {
	return filepath.Join(dir, name+".yaml")
}
