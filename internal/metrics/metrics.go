// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conciliacao"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	schemaChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_checks_total",
		Help:      "Schema checks by result: ok, drift or error",
	}, []string{"result"})

	// RegisteredTables is the number of tables in the registry.
	RegisteredTables = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registered_tables",
		Help:      "Number of finance tables in the registry",
	})

	// ConciliacaoEnabled is 1 when the reconciliation feature flag is on.
	ConciliacaoEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feature_conciliacao_enabled",
		Help:      "1 when ENABLE_CONCILIACAO is true",
	})
)

// RecordRequest records one served HTTP request.
func RecordRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordSchemaCheck records the outcome of a schema check.
func RecordSchemaCheck(ok bool, err error) {
	switch {
	case err != nil:
		schemaChecksTotal.WithLabelValues("error").Inc()
	case ok:
		schemaChecksTotal.WithLabelValues("ok").Inc()
	default:
		schemaChecksTotal.WithLabelValues("drift").Inc()
	}
}

// SetFlag sets a 0/1 gauge from a bool.
func SetFlag(g prometheus.Gauge, on bool) {
	if on {
		g.Set(1)
		return
	}
	g.Set(0)
}
