package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query execution metrics.
var (
	QueryExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitprint",
			Name:      "query_executions_total",
			Help:      "Total number of query executions",
		},
		[]string{"backend", "status"}, // "ok" / "error"
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hitprint",
			Name:      "query_duration_seconds",
			Help:      "Query execution duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	RecordsProjectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hitprint",
			Name:      "records_projected_total",
			Help:      "Total number of records returned to the projector",
		},
	)
)

var registerOnce sync.Once

// Register registers all hitprint collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			QueryExecutionsTotal,
			QueryDuration,
			RecordsProjectedTotal,
		)
	})
}

// Observer records query executions into the Prometheus collectors.
type Observer struct{}

// ObserveExecution records one execution outcome.
func (Observer) ObserveExecution(backend string, dur time.Duration, records int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	QueryExecutionsTotal.WithLabelValues(backend, status).Inc()
	QueryDuration.WithLabelValues(backend).Observe(dur.Seconds())
	if err == nil {
		RecordsProjectedTotal.Add(float64(records))
	}
}
