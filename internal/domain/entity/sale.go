package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// Sale registro de auditoría de una venta (solo inserción, uno por tiquete).
// Amount se captura al vender y nunca se recalcula desde el precio vigente del vuelo.
type Sale struct {
	ID            string
	TicketID      string
	CashierID     *string // cajero que vendió, o dueño del vuelo en autoservicio
	Amount        decimal.Decimal
	PaymentMethod string
	SaleDate      time.Time
}

// ValidPaymentMethod valida un medio de pago.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}
