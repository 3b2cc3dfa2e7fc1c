package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dual-write and search assembly Prometheus metrics.
var (
	IndexMirrorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "index_mirror_failures_total",
			Help:      "Total index mirror calls that failed after a committed record store mutation",
		},
		[]string{"operation"}, // "put" / "delete"
	)

	SearchDroppedHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "search_dropped_hits_total",
			Help:      "Total search hits dropped because the per-hit index fetch failed",
		},
	)
)

var syncMetricsRegistered bool

// RegisterSyncMetrics registers the dual-write metrics. Must be called once from main.
func RegisterSyncMetrics() {
	if syncMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexMirrorFailuresTotal)
	prometheus.MustRegister(SearchDroppedHitsTotal)
	syncMetricsRegistered = true
}
