// Package cli implements the commands of the turing binary on top of the
// library packages. Each entry point takes explicit IO so it can be tested.
package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/turing/internal/logging"
)

// Options carries the global and per-command flags.
type Options struct {
	Dir        string // machine directory
	LogLevel   string
	MaxSteps   int
	Permissive bool
	Store      string // memory, file or redis
	RedisAddr  string
	RedisPass  string
	SessionKey string // base64 AES-256 key; sessions are sealed when set
	Sep        string // input symbol separator
	JSON       bool
	Quiet      bool
	Verbose    bool
	Headless   bool
}

// DefaultMaxSteps bounds CLI runs so that a looping machine does not hang the terminal.
const DefaultMaxSteps = 100_000

// Logger builds the application logger. Quiet mode only reports errors.
func (o Options) Logger() *slog.Logger {
	if o.Quiet {
		return logging.New(slog.LevelError)
	}
	return logging.New(logging.ParseLevel(o.LogLevel))
}

// SessionDir is where the file store keeps sessions.
func (o Options) SessionDir() string {
	return filepath.Join(o.Dir, ".turing", "sessions")
}
