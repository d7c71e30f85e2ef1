// Package metrics expone contadores Prometheus del inventario.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/marketsnap-inventory/internal/application/inventory"
)

var _ inventory.MutationRecorder = (*InventoryMetrics)(nil)

// InventoryMetrics mutaciones de stock por acción y resultado (committed|rejected|failed).
type InventoryMetrics struct {
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewInventoryMetrics registra las métricas en reg (o en el registro por defecto si es nil).
func NewInventoryMetrics(reg prometheus.Registerer) (*InventoryMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &InventoryMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_mutations_total",
			Help: "Mutaciones de stock intentadas por acción y resultado",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_stock_mutation_duration_seconds",
			Help:    "Duración de las mutaciones de stock (incluye la transacción)",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
	}
	var err error
	if m.mutations, err = registerVec(reg, m.mutations); err != nil {
		return nil, err
	}
	if m.duration, err = registerVec(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveMutation implementa inventory.MutationRecorder.
func (m *InventoryMetrics) ObserveMutation(action, outcome string, elapsed time.Duration) {
	m.mutations.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// Handler devuelve el handler de /metrics para el gatherer (o el global si es nil).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// registerVec registra c; si ya estaba registrado reutiliza el collector existente.
func registerVec[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
