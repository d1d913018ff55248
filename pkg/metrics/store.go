package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store operation names used as the "op" label value.
const (
	OpCartAdd      = "cart_add"
	OpCartClear    = "cart_clear"
	OpOrderCreate  = "order_create"
	OpBackupExport = "backup_export"
	OpBackupImport = "backup_import"
)

// StoreMetrics records latency and outcomes of store operations. A nil
// receiver is a no-op so callers can leave metrics unwired in tests.
type StoreMetrics struct {
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_operations_total",
		Help: "Store operations by outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(duration, operations)
	return &StoreMetrics{
		duration:   duration,
		operations: operations,
	}
}

// Observe records one finished operation.
func (m *StoreMetrics) Observe(op string, elapsed time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(elapsed.Seconds())
	m.operations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}
