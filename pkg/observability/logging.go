package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks logs run starts and halts at info and every step at debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"machine", e.Machine,
				"input", domain.JoinSymbols(e.Input),
				"start", e.Start,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"machine", e.Machine,
				"index", e.Index,
				"from", e.From,
				"read", e.Read,
				"to", e.State,
				"write", e.Write,
				"move", e.Move,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt",
				"machine", e.Machine,
				"status", e.Outcome.Status,
				"steps", e.Outcome.Steps,
				"state", e.Outcome.FinalState,
			)
		},
	}
}
