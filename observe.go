package hitprint

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    prometheus.Counter
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hitprint",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type, backend and status.",
		}, []string{"operation", "backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hitprint",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "backend"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hitprint",
			Subsystem: "sdk",
			Name:      "records_projected_total",
			Help:      "Total records returned to the projector.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.records); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("hitprint: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("hitprint: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *zap.Logger
	metrics *sdkMetrics
	backend string
}

// newObserver returns nil when neither logging nor metrics are enabled.
func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	if logger == nil && reg == nil {
		return nil, nil //nolint:nilnil // nil observer disables instrumentation
	}
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// ObserveExecution implements project.Observer.
func (o *observer) ObserveExecution(backend string, dur time.Duration, records int, err error) {
	o.record("project", backend, dur, err)
	if err == nil && o.metrics != nil {
		o.metrics.records.Add(float64(records))
	}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.record(op, o.backend, time.Since(start), err)
}

func (o *observer) record(op, backend string, dur time.Duration, err error) {
	if o == nil {
		return
	}

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, backend, status).Inc()
		o.metrics.duration.WithLabelValues(op, backend).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				zap.String("op", op),
				zap.String("backend", backend),
				zap.Duration("duration", dur),
				zap.Error(err),
			)
		} else {
			o.logger.Debug("operation completed",
				zap.String("op", op),
				zap.String("backend", backend),
				zap.Duration("duration", dur),
			)
		}
	}
}
