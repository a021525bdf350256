package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchFlightsQuery filtros de GET /api/flights. Los vacíos no filtran.
type SearchFlightsQuery struct {
	DepartureCity string `query:"departure_city"`
	ArrivalCity   string `query:"arrival_city"`
	Date          string `query:"date"` // YYYY-MM-DD
	FlightNumber  string `query:"flight_number"`
	Status        string `query:"status"` // solo admin
	Limit         int    `query:"limit"`
}

// CreateFlightRequest entrada para crear un vuelo. Seats fija capacidad y sillas disponibles.
type CreateFlightRequest struct {
	FlightNumber  string          `json:"flight_number" validate:"required,max=20"`
	DepartureCity string          `json:"departure_city" validate:"required"`
	ArrivalCity   string          `json:"arrival_city" validate:"required"`
	DepartureTime time.Time       `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time       `json:"arrival_time" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	Seats         int             `json:"seats" validate:"min=1"`
	Airplane      string          `json:"airplane"`
	// CashierPhone (solo admin) asigna el vuelo a un cajero existente.
	CashierPhone string `json:"cashier_phone"`
}

// UpdateFlightRequest edición de un vuelo (admin). Campos nil no cambian.
type UpdateFlightRequest struct {
	FlightNumber   *string          `json:"flight_number"`
	DepartureCity  *string          `json:"departure_city"`
	ArrivalCity    *string          `json:"arrival_city"`
	DepartureTime  *time.Time       `json:"departure_time"`
	ArrivalTime    *time.Time       `json:"arrival_time"`
	Price          *decimal.Decimal `json:"price"`
	SeatsAvailable *int             `json:"seats_available"`
	Airplane       *string          `json:"airplane"`
	Status         *string          `json:"status" validate:"omitempty,oneof=active cancelled completed"`
	StaffID        *string          `json:"staff_id"` // "" desasigna el cajero
}

// FlightResponse salida de un vuelo.
type FlightResponse struct {
	ID             string          `json:"id"`
	FlightNumber   string          `json:"flight_number"`
	DepartureCity  string          `json:"departure_city"`
	ArrivalCity    string          `json:"arrival_city"`
	DepartureTime  time.Time       `json:"departure_time"`
	ArrivalTime    time.Time       `json:"arrival_time"`
	Price          decimal.Decimal `json:"price"`
	Capacity       int             `json:"capacity"`
	SeatsAvailable int             `json:"seats_available"`
	Airplane       string          `json:"airplane"`
	StaffID        *string         `json:"staff_id,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FlightListResponse lista de vuelos.
type FlightListResponse struct {
	Items []FlightResponse `json:"items"`
}
