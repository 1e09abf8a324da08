// Package http exposes machines and sessions over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog resolves machines, e.g. a *registry.Registry.
type Catalog interface {
	Engine(ctx context.Context, name string) (*turing.Engine, error)
	Describe(ctx context.Context, name string) (domain.Description, error)
	List(ctx context.Context) ([]string, error)
}

// Sessions drives stepwise runs, e.g. a *session.Manager.
type Sessions interface {
	Start(ctx context.Context, machine string, input []domain.Symbol, opts ...turing.RunOption) (*domain.RunState, error)
	Step(ctx context.Context, sessionID string, n int) (*domain.RunState, error)
	Get(ctx context.Context, sessionID string) (*domain.RunState, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the handler dependencies.
type Server struct {
	Machines Catalog
	Sessions Sessions
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables the /sessions routes.
func WithSessions(s Sessions) Option {
	return func(srv *Server) {
		srv.Sessions = s
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(srv *Server) {
		srv.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the catalog.
func NewHandler(machines Catalog, opts ...Option) http.Handler {
	s := &Server{Machines: machines, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.DescribeMachine)
		r.Get("/{name}/graph", s.MachineGraph)
		r.Post("/{name}/runs", s.RunMachine)
	})

	if s.Sessions != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.StartSession)
			r.Get("/{id}", s.GetSession)
			r.Post("/{id}/step", s.StepSession)
			r.Delete("/{id}", s.DeleteSession)
		})
	}

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunRequest is the body of POST /machines/{name}/runs.
type RunRequest struct {
	Input    string `json:"input"`
	Sep      string `json:"sep,omitempty"`
	Start    string `json:"start,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
	Trace    bool   `json:"trace,omitempty"`
}

// MaxTraceSteps caps the steps returned for a traced run.
const MaxTraceSteps = 500

// RunResponse reports a run. Error is set when the run was interrupted.
// TraceTruncated is set when the run took more than MaxTraceSteps steps.
type RunResponse struct {
	Machine        string          `json:"machine"`
	Outcome        *domain.Outcome `json:"outcome"`
	Trace          []domain.Step   `json:"trace,omitempty"`
	TraceTruncated bool            `json:"trace_truncated,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// SessionRequest is the body of POST /sessions.
type SessionRequest struct {
	Machine string `json:"machine"`
	Input   string `json:"input"`
	Sep     string `json:"sep,omitempty"`
	Start   string `json:"start,omitempty"`
}

// StepRequest is the body of POST /sessions/{id}/step.
type StepRequest struct {
	Count int `json:"count"`
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Machines.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": names})
}

// DescribeMachine handles GET /machines/{name}.
func (s *Server) DescribeMachine(w http.ResponseWriter, r *http.Request) {
	desc, err := s.Machines.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, desc)
}

// MachineGraph handles GET /machines/{name}/graph. With ?session=<id> the
// session's current state is highlighted.
func (s *Server) MachineGraph(w http.ResponseWriter, r *http.Request) {
	desc, err := s.Machines.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var overlay *graph.Overlay
	if id := r.URL.Query().Get("session"); id != "" && s.Sessions != nil {
		rs, err := s.Sessions.Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		overlay = &graph.Overlay{CurrentState: rs.State}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(desc, overlay)))
}

// RunMachine handles POST /machines/{name}/runs.
func (s *Server) RunMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}

	eng, err := s.Machines.Engine(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := RunResponse{Machine: name}
	var opts []turing.RunOption
	if body.Start != "" {
		opts = append(opts, turing.WithStart(domain.State(body.Start)))
	}
	if body.MaxSteps < 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_steps must not be negative"})
		return
	}
	// The engine's own bound still applies; this can only lower it.
	opts = append(opts, turing.WithStepLimit(body.MaxSteps))
	if body.Trace {
		opts = append(opts, turing.WithObserver(func(step domain.Step) {
			if len(resp.Trace) >= MaxTraceSteps {
				resp.TraceTruncated = true
				return
			}
			resp.Trace = append(resp.Trace, step)
		}))
	}

	input, err := turing.SanitizeInput(body.Input)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := eng.Run(r.Context(), domain.SplitInput(input, body.Sep), opts...)
	resp.Outcome = out
	if err != nil {
		if out == nil {
			s.fail(w, r, err)
			return
		}
		resp.Error = err.Error()
		s.writeJSON(w, statusFor(err), resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Machine == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "machine is required"})
		return
	}

	var opts []turing.RunOption
	if body.Start != "" {
		opts = append(opts, turing.WithStart(domain.State(body.Start)))
	}
	input, err := turing.SanitizeInput(body.Input)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rs, err := s.Sessions.Start(r.Context(), body.Machine, domain.SplitInput(input, body.Sep), opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rs)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rs)
}

// StepSession handles POST /sessions/{id}/step. An empty body applies one step.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	body := StepRequest{Count: 1}
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}
	if body.Count <= 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be positive"})
		return
	}

	rs, err := s.Sessions.Step(r.Context(), chi.URLParam(r, "id"), body.Count)
	if err != nil {
		if rs != nil && errors.Is(err, domain.ErrStepLimit) {
			s.writeJSON(w, statusFor(err), map[string]any{"session": rs, "error": err.Error()})
			return
		}
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rs)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrInvalidRule),
		errors.Is(err, turing.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, turing.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrStepLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
