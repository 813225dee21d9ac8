package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and document Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodocs",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by strategy",
		},
		[]string{"strategy", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geodocs",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	DocumentsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "geodocs",
			Name:      "documents_created_total",
			Help:      "Total number of documents created",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(DocumentsCreatedTotal)
	searchMetricsRegistered = true
}
