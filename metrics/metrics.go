// Package metrics exposes run and stage counters in Prometheus format.
// The Metrics type plugs into the engine as an observer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/draftforge/draftforge/content"
)

// Metrics collects orchestration counters. Create one per process with
// New and register it on the engine.
type Metrics struct {
	registry *prometheus.Registry

	runsStarted   prometheus.Counter
	runsFinished  *prometheus.CounterVec
	stageAttempts *prometheus.CounterVec
	gateVerdicts  *prometheus.CounterVec
	runDuration   prometheus.Histogram
}

// New creates a metrics collector with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		runsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "draftforge",
			Name:      "runs_started_total",
			Help:      "Number of orchestration runs started.",
		}),
		runsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "draftforge",
			Name:      "runs_finished_total",
			Help:      "Number of orchestration runs finished, by terminal status.",
		}, []string{"status"}),
		stageAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "draftforge",
			Name:      "stage_attempts_total",
			Help:      "Number of stage invocations, by stage.",
		}, []string{"stage"}),
		gateVerdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "draftforge",
			Name:      "gate_verdicts_total",
			Help:      "Number of gate evaluations, by stage and verdict.",
		}, []string{"stage", "verdict"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "draftforge",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of finished runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// RunStarted implements engine.Observer.
func (m *Metrics) RunStarted(*content.RunState) {
	m.runsStarted.Inc()
}

// StageAttempt implements engine.Observer.
func (m *Metrics) StageAttempt(_ *content.RunState, stage content.Stage, _ int) {
	m.stageAttempts.WithLabelValues(string(stage)).Inc()
}

// GateVerdict implements engine.Observer.
func (m *Metrics) GateVerdict(_ *content.RunState, stage content.Stage, passed bool) {
	verdict := "fail"
	if passed {
		verdict = "pass"
	}
	m.gateVerdicts.WithLabelValues(string(stage), verdict).Inc()
}

// RunFinished implements engine.Observer.
func (m *Metrics) RunFinished(run *content.RunState) {
	m.runsFinished.WithLabelValues(string(run.Status)).Inc()
	m.runDuration.Observe(run.Duration().Seconds())
}

// Handler serves the collected metrics in Prometheus exposition
// format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
