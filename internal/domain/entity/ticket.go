package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un tiquete. NONE -> active -> returned (terminal).
const (
	TicketStatusActive   = "active"
	TicketStatusReturned = "returned"
)

// Ticket representa un tiquete emitido a un pasajero.
type Ticket struct {
	ID                string
	UserID            string // dueño / comprador
	FlightID          string
	PassengerName     string
	PassengerPassport string
	PurchaseDate      time.Time
	Status            string
}

// IsActive indica si el tiquete puede devolverse.
func (t *Ticket) IsActive() bool { return t.Status == TicketStatusActive }

// TicketDetail tiquete enriquecido con el vuelo, el teléfono del dueño y el medio de pago.
// Se usa para recibos, "mis tiquetes" y la búsqueda de devoluciones en caja.
type TicketDetail struct {
	Ticket
	FlightNumber  string
	DepartureCity string
	ArrivalCity   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         decimal.Decimal // precio vigente del vuelo
	OwnerPhone    string
	PaymentMethod string // vacío si no hay venta registrada
	SaleAmount    decimal.Decimal
}
