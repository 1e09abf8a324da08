package cli

import (
	"log/slog"
	"net/http"

	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewHTTPHandler builds the HTTP API over the machines of opts.Dir, with
// sessions in the configured store and metrics on /metrics.
func NewHTTPHandler(opts Options, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	machines := NewRegistry(opts, logger, metrics.Hooks())
	sessions, err := NewSessionManager(opts, logger, machines)
	if err != nil {
		return nil, err
	}

	return httpAdapter.NewHandler(machines,
		httpAdapter.WithSessions(sessions),
		httpAdapter.WithMetrics(reg),
		httpAdapter.WithLogger(logger),
	), nil
}

// NewMCPServer exposes the machines of opts.Dir as MCP tools.
func NewMCPServer(opts Options, logger *slog.Logger) *mcp.Server {
	return mcp.NewServer(NewRegistry(opts, logger), logger)
}
