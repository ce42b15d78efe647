//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package metrics registers the Prometheus collectors for the simulation
// engine. Collectors are registered with the default registry; the serve
// adapter exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationsTotal counts simulation runs by terminal status.
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pts_simulations_total",
			Help: "Total simulation runs by terminal status",
		},
		[]string{"status"},
	)

	// BlockersTotal counts blockers surfaced across all runs.
	BlockersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pts_blockers_total",
			Help: "Total blockers surfaced across all simulation runs",
		},
	)

	// ChangesAnalyzedTotal counts access changes analyzed across all runs.
	ChangesAnalyzedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pts_changes_analyzed_total",
			Help: "Total access changes analyzed across all simulation runs",
		},
	)

	// RunDuration observes wall-clock run duration in seconds.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pts_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// ObserveRun records the metrics for one finalized run.
func ObserveRun(status string, blockers, changes int, seconds float64) {
	SimulationsTotal.WithLabelValues(status).Inc()
	BlockersTotal.Add(float64(blockers))
	ChangesAnalyzedTotal.Add(float64(changes))
	RunDuration.Observe(seconds)
}
