package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento publicados por los ganchos salientes.
const (
	EventTicketIssued    = "TicketIssued"
	EventPaymentCaptured = "PaymentCaptured"
	EventRefundIssued    = "RefundIssued"
)

// TicketIssuedEvent se emite cuando un tiquete queda activo (simulación de envío por correo).
type TicketIssuedEvent struct {
	TicketID      string    `json:"ticket_id"`
	FlightID      string    `json:"flight_id"`
	FlightNumber  string    `json:"flight_number"`
	UserID        string    `json:"user_id"`
	PassengerName string    `json:"passenger_name"`
	Channel       string    `json:"channel"`
	IssuedAt      time.Time `json:"issued_at"`
}

// PaymentCapturedEvent pago simulado de la venta.
type PaymentCapturedEvent struct {
	SaleID        string          `json:"sale_id"`
	TicketID      string          `json:"ticket_id"`
	CashierID     string          `json:"cashier_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CapturedAt    time.Time       `json:"captured_at"`
}

// RefundIssuedEvent reembolso simulado al devolver un tiquete (precio vigente del vuelo).
type RefundIssuedEvent struct {
	ReturnID  string          `json:"return_id"`
	TicketID  string          `json:"ticket_id"`
	CashierID string          `json:"cashier_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Channel   string          `json:"channel"`
	IssuedAt  time.Time       `json:"issued_at"`
}
