package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petsearch",
			Name:      "search_requests_total",
			Help:      "Total number of product searches by result mode",
		},
		[]string{"mode"}, // "bm25" / "hybrid"
	)

	SearchChannelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "petsearch",
			Name:      "search_channel_duration_seconds",
			Help:      "Retrieval channel duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"channel"}, // "lexical" / "vector"
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petsearch",
			Name:      "search_degraded_total",
			Help:      "Vector channel degradations by reason",
		},
		[]string{"reason"}, // "embed_error" / "knn_error" / "knn_unsupported"
	)

	SearchKNNDisabled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "petsearch",
			Name:      "search_knn_disabled",
			Help:      "1 when vector search is disabled for the process lifetime",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchChannelDuration)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchKNNDisabled)
	searchMetricsRegistered = true
}
