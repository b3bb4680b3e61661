package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LayerMemo   = "memo"
	LayerShared = "shared"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "cache_lookups_total",
			Help:      "Event list cache lookups by layer and result",
		},
		[]string{"layer", "result"},
	)

	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listing",
			Name:      "query_duration_seconds",
			Help:      "Event query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"status"},
	)

	invalidatedKeysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "cache_invalidated_keys_total",
			Help:      "Shared cache keys removed by invalidation",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)

// RecordCache records a memo or shared cache lookup.
func RecordCache(layer string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(layer, result).Inc()
}

// ObserveQuery records the duration of one repo query.
func ObserveQuery(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	queryDuration.WithLabelValues(status).Observe(d.Seconds())
}

func RecordInvalidation(keys int) {
	invalidatedKeysTotal.Add(float64(keys))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
