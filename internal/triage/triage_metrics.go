package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage pipeline.
type Metrics struct {
	TriagesTotal    *prometheus.CounterVec
	TriageDuration  prometheus.Histogram
	Confidence      prometheus.Histogram
	FallbacksTotal  *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_triages_total",
			Help: "Total triage calls by predicted category and priority.",
		}, []string{"category", "priority"}),
		TriageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sift_triage_duration_seconds",
			Help:    "Duration of triage calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs .. ~0.4s
		}),
		Confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sift_triage_confidence",
			Help:    "Classifier posterior confidence per triage call.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11), // 0.0 .. 1.0
		}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_triage_fallbacks_total",
			Help: "Triage calls resolved by a fallback branch, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.TriagesTotal,
		m.TriageDuration,
		m.Confidence,
		m.FallbacksTotal,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnTriage: func(e *Event) {
			m.TriagesTotal.WithLabelValues(string(e.Category), string(e.Priority)).Inc()
			m.TriageDuration.Observe(e.Duration)
			m.Confidence.Observe(e.Confidence)
			if e.Mode != ModeModel {
				m.FallbacksTotal.WithLabelValues(string(e.Mode)).Inc()
			}
		},
	}
}
