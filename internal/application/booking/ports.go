package booking

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

// BookingTxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn retorna nil; Rollback completo en cualquier otro caso.
type BookingTxRunner interface {
	RunBooking(ctx context.Context, fn func(
		flightRepo repository.FlightRepository,
		ticketRepo repository.TicketRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error) error
}

// SeatInventory ajuste atómico de sillas (lo implementa *inventory.SeatManager).
type SeatInventory interface {
	ReserveSeat(ctx context.Context, flights repository.FlightRepository, flightID string) error
	ReleaseSeat(ctx context.Context, flights repository.FlightRepository, flightID string) error
}

// Notifier ganchos salientes de mejor esfuerzo. Se invocan después del commit;
// un error aquí se registra pero nunca revierte la transacción.
type Notifier interface {
	TicketIssued(ctx context.Context, ev TicketIssuedEvent) error
	PaymentCaptured(ctx context.Context, ev PaymentCapturedEvent) error
	RefundIssued(ctx context.Context, ev RefundIssuedEvent) error
}

// Metrics contadores del flujo de tiquetes.
type Metrics interface {
	TicketSold(channel string)
	TicketReturned(channel string)
	OperationFailed(operation, reason string)
}

// Canales de venta/devolución para métricas y eventos.
const (
	ChannelSelfService = "self_service"
	ChannelCashier     = "cashier"
)

type noopMetrics struct{}

func (noopMetrics) TicketSold(string)              {}
func (noopMetrics) TicketReturned(string)          {}
func (noopMetrics) OperationFailed(string, string) {}
