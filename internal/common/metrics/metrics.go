// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callguard_evaluations_total",
			Help: "Total number of call evaluations by resulting risk level",
		},
		[]string{"risk_level"},
	)

	ScorerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callguard_scorer_failures_total",
			Help: "Sub-scorer faults converted to fallback scores",
		},
		[]string{"component", "error_code"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "callguard_evaluation_duration_seconds",
			Help: "Duration of full call evaluations in seconds",
		},
		[]string{"outcome"},
	)

	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "callguard_scorer_duration_seconds",
			Help: "Duration of individual sub-scorer runs in seconds",
		},
		[]string{"component"},
	)

	VerdictCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callguard_verdict_cache_total",
			Help: "Verdict cache lookups by result",
		},
		[]string{"result"},
	)
)
