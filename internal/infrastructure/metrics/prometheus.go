// Package metrics contadores Prometheus del flujo de tiquetes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
)

var _ booking.Metrics = (*BookingMetrics)(nil)

// BookingMetrics implementa booking.Metrics.
type BookingMetrics struct {
	sold     *prometheus.CounterVec
	returned *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewBookingMetrics registra los contadores en reg (prometheus.DefaultRegisterer en producción).
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	f := promauto.With(reg)
	return &BookingMetrics{
		sold: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tiquetes_tickets_sold_total",
			Help: "Tiquetes vendidos por canal",
		}, []string{"channel"}),
		returned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tiquetes_tickets_returned_total",
			Help: "Tiquetes devueltos por canal",
		}, []string{"channel"}),
		failed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tiquetes_operations_failed_total",
			Help: "Compras y devoluciones abortadas por motivo",
		}, []string{"operation", "reason"}),
	}
}

func (m *BookingMetrics) TicketSold(channel string) { m.sold.WithLabelValues(channel).Inc() }

func (m *BookingMetrics) TicketReturned(channel string) { m.returned.WithLabelValues(channel).Inc() }

func (m *BookingMetrics) OperationFailed(operation, reason string) {
	m.failed.WithLabelValues(operation, reason).Inc()
}
