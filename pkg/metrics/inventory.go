package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics counts product operations, status transitions and
// barcode lookups. A nil receiver records nothing.
type InventoryMetrics struct {
	operations  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	lookups     *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_operations_total",
		Help: "Product operations by name and result code.",
	}, []string{"operation", "code"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_status_transitions_total",
		Help: "Product status changes caused by stock mutations.",
	}, []string{"from", "to"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_lookups_total",
		Help: "External product lookups by result.",
	}, []string{"result"})
	reg.MustRegister(operations, transitions, lookups)
	return &InventoryMetrics{
		operations:  operations,
		transitions: transitions,
		lookups:     lookups,
	}
}

// IncOperation counts one operation outcome. An empty code means success.
func (m *InventoryMetrics) IncOperation(operation, code string) {
	if m == nil || m.operations == nil {
		return
	}
	if code == "" {
		code = "OK"
	}
	m.operations.WithLabelValues(normalizeLabel(operation), code).Inc()
}

// IncTransition is a no-op when the status did not change.
func (m *InventoryMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *InventoryMetrics) IncLookup(result string) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
