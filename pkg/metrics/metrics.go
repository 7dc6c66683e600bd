// Package metrics defines the Prometheus collectors the runbook engine
// exposes, registered once at construction and injected into the
// components that record against them rather than reached for through
// the global default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles every metric the orchestrator and executor record
// against. A single Collector is meant to be constructed once per
// process and shared across every Orchestrator/Executor instance.
type Collector struct {
	StepOutcomes       *prometheus.CounterVec
	StepDuration       *prometheus.HistogramVec
	IncidentsByStatus  *prometheus.CounterVec
	VerificationRounds prometheus.Histogram
}

// New builds a Collector and registers its collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with other
// packages' metrics on the default registry; pass
// prometheus.DefaultRegisterer in a running service.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		StepOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "runbook_step_outcomes_total",
			Help: "Count of runbook step executions by action and outcome.",
		}, []string{"action", "status"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "runbook_step_duration_seconds",
			Help:    "Duration of a single runbook step execution.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		IncidentsByStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "incidents_by_status_total",
			Help: "Count of incidents transitioning through each lifecycle status.",
		}, []string{"status"}),
		VerificationRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verification_rounds",
			Help:    "Number of verification polling rounds before an incident resolved or gave up.",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
	}
	reg.MustRegister(c.StepOutcomes, c.StepDuration, c.IncidentsByStatus, c.VerificationRounds)
	return c
}

// Noop returns a Collector whose collectors are registered against a
// private, never-exposed registry, for callers (tests, one-off CLI
// runs) that don't want to wire a real metrics backend.
func Noop() *Collector {
	return New(prometheus.NewRegistry())
}
