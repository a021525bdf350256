package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseTicketRequest compra en autoservicio o venta asistida.
// BuyerUserID solo lo usan cajero y admin; el cliente siempre compra para sí mismo.
type PurchaseTicketRequest struct {
	FlightID          string `json:"flight_id" validate:"required"`
	BuyerUserID       string `json:"buyer_user_id"`
	PassengerName     string `json:"passenger_name" validate:"required"`
	PassengerPassport string `json:"passenger_passport" validate:"required"`
	PaymentMethod     string `json:"payment_method" validate:"omitempty,oneof=cash card"`
}

// SellTicketRequest venta en caja identificando al cliente por teléfono.
type SellTicketRequest struct {
	FlightID          string `json:"flight_id" validate:"required"`
	ClientPhone       string `json:"client_phone" validate:"required"`
	PassengerName     string `json:"passenger_name" validate:"required"`
	PassengerPassport string `json:"passenger_passport" validate:"required"`
	PaymentMethod     string `json:"payment_method" validate:"omitempty,oneof=cash card"`
}

// PurchaseTicketResponse ID del tiquete emitido.
type PurchaseTicketResponse struct {
	TicketID string `json:"ticket_id"`
}

// ReturnTicketRequest motivo y explicación (solo caja; el cliente los omite).
type ReturnTicketRequest struct {
	Reason      string `json:"reason"`
	Explanation string `json:"explanation"`
}

// ReturnTicketResponse resultado de una devolución.
type ReturnTicketResponse struct {
	ReturnID string `json:"return_id"`
	TicketID string `json:"ticket_id"`
	FlightID string `json:"flight_id"`
}

// SearchTicketsQuery búsqueda de tiquetes activos en caja.
type SearchTicketsQuery struct {
	TicketID string `query:"ticket_id"`
	Passport string `query:"passport"`
	Phone    string `query:"phone"`
	Limit    int    `query:"limit"`
}

// TicketResponse tiquete con datos del vuelo (mis tiquetes, búsqueda y recibo).
type TicketResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	FlightID          string          `json:"flight_id"`
	FlightNumber      string          `json:"flight_number"`
	DepartureCity     string          `json:"departure_city"`
	ArrivalCity       string          `json:"arrival_city"`
	DepartureTime     time.Time       `json:"departure_time"`
	ArrivalTime       time.Time       `json:"arrival_time"`
	PassengerName     string          `json:"passenger_name"`
	PassengerPassport string          `json:"passenger_passport"`
	PurchaseDate      time.Time       `json:"purchase_date"`
	Status            string          `json:"status"`
	Price             decimal.Decimal `json:"price"`
	OwnerPhone        string          `json:"owner_phone,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
}

// TicketListResponse lista de tiquetes.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
}
