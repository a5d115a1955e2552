package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeMatched   = "matched"
	outcomeFiltered  = "filtered"
	outcomeExcluded  = "excluded"
	outcomeRejected  = "rejected"
	outcomeAbandoned = "abandoned"
)

// Metrics are the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	candidates *prometheus.CounterVec
	scores     prometheus.Histogram
	duration   prometheus.Histogram
}

// NewMetrics registers the engine collectors on reg. It panics when they are
// already registered, like promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affinity_candidates_total",
				Help: "Candidates processed by the matching engine, by outcome",
			},
			[]string{"outcome"},
		),
		scores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "affinity_composite_score",
				Help:    "Distribution of composite compatibility scores",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "affinity_batch_duration_seconds",
				Help: "Time spent matching one seeker against a batch",
			},
		),
	}
}

func (m *Metrics) recordCandidates(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.candidates.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) recordScore(score float64) {
	if m == nil {
		return
	}
	m.scores.Observe(score)
}

func (m *Metrics) recordBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}
