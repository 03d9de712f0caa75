// Package metrics holds the Prometheus collectors shared by the diagnosis
// service and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oshichecker"

var (
	// Transitions counts reducer calls by action type and outcome
	// (applied, rejected, ignored).
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Session state transitions by action and outcome.",
	}, []string{"action", "outcome"})

	BattlesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "battles_recorded_total",
		Help:      "Battle results accepted across all sessions.",
	})

	RankingsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rankings_computed_total",
		Help:      "Final rankings produced by completed tournaments.",
	})

	// SnapshotErrors counts non-fatal persistence failures by op (load, save, clear).
	SnapshotErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_errors_total",
		Help:      "Session snapshot persistence failures.",
	}, []string{"op"})

	TopComposite = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "top_composite_score",
		Help:      "Composite score of the first-ranked candidate.",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	})

	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_swept_total",
		Help:      "Expired session snapshots deleted by the sweeper.",
	})
)
