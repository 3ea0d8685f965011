package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_transitions_total",
			Help: "Game save transitions by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	txRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_tx_retries_total",
			Help: "Units of work retried after a storage-level failure.",
		},
		[]string{"operation"},
	)

	txConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novel_tx_conflicts_total",
			Help: "Units of work that still failed after the retry and surfaced as conflicts.",
		},
		[]string{"operation"},
	)

	unverifiedPreviousMovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "novel_unverified_previous_moves_total",
		Help: "Moves to a caller-supplied previous node that has no edge into the current node.",
	})

	progressPublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "novel_progress_publish_failures_total",
		Help: "Committed transitions whose progress event could not be published.",
	})
)
