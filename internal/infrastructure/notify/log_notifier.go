package notify

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/pkg/logger"
)

var _ booking.Notifier = (*LogNotifier)(nil)

// LogNotifier deja los eventos en el log. Se usa cuando no hay brokers configurados.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de solo log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Component("notify")}
}

func (n *LogNotifier) TicketIssued(_ context.Context, ev booking.TicketIssuedEvent) error {
	n.log.Info().
		Str("event", booking.EventTicketIssued).
		Str("ticket_id", ev.TicketID).
		Str("flight_number", ev.FlightNumber).
		Str("passenger", ev.PassengerName).
		Msg("tiquete enviado al pasajero")
	return nil
}

func (n *LogNotifier) PaymentCaptured(_ context.Context, ev booking.PaymentCapturedEvent) error {
	n.log.Info().
		Str("event", booking.EventPaymentCaptured).
		Str("sale_id", ev.SaleID).
		Str("amount", ev.Amount.String()).
		Str("payment_method", ev.PaymentMethod).
		Msg("pago capturado")
	return nil
}

func (n *LogNotifier) RefundIssued(_ context.Context, ev booking.RefundIssuedEvent) error {
	n.log.Info().
		Str("event", booking.EventRefundIssued).
		Str("return_id", ev.ReturnID).
		Str("amount", ev.Amount.String()).
		Msg("reembolso emitido")
	return nil
}
