package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run collectors.
type Metrics struct {
	Runs      *prometheus.CounterVec
	Steps     *prometheus.HistogramVec
	TapeCells *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of halted runs by verdict",
			},
			[]string{"machine", "result"},
		),
		Steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Transitions applied per halted run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"machine"},
		),
		TapeCells: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_tape_cells",
				Help:    "Materialized tape cells at halt",
				Buckets: prometheus.ExponentialBuckets(1, 2, 16),
			},
			[]string{"machine"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Runs, m.Steps, m.TapeCells} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording every halt.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.Observe(e.Machine, e.Outcome)
		},
	}
}

// Observe records one halted run.
func (m *Metrics) Observe(machine string, out domain.Outcome) {
	m.Runs.WithLabelValues(machine, string(out.Status)).Inc()
	m.Steps.WithLabelValues(machine).Observe(float64(out.Steps))
	m.TapeCells.WithLabelValues(machine).Observe(float64(len(out.Tape.Cells)))
}
