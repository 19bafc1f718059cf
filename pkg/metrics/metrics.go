// Package metrics defines the Prometheus metric collectors used by the
// submission pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the pipeline.
type Metrics struct {
	SubmissionsTotal   prometheus.Counter
	RejectionsTotal    *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
	JournalDropped     prometheus.Counter
}

// New creates all collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "submissions_total",
				Help: "Total number of successful submissions.",
			},
		),
		RejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submission_rejections_total",
				Help: "Total number of rejected submissions by reason.",
			},
			[]string{"reason"},
		),
		SubmissionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "submission_duration_seconds",
				Help:    "Submission handling latency in seconds.",
				Buckets: []float64{0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
			},
		),
		JournalDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "journal_dropped_total",
				Help: "Total journal records dropped because the buffer was full.",
			},
		),
	}

	reg.MustRegister(
		m.SubmissionsTotal,
		m.RejectionsTotal,
		m.SubmissionDuration,
		m.JournalDropped,
	)

	return m
}
