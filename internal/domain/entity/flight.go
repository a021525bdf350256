package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un vuelo.
const (
	FlightStatusActive    = "active"
	FlightStatusCancelled = "cancelled"
	FlightStatusCompleted = "completed"
)

// Flight representa un vuelo con su inventario de sillas.
// Invariante: 0 <= SeatsAvailable <= Capacity.
type Flight struct {
	ID             string
	FlightNumber   string
	DepartureCity  string
	ArrivalCity    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Price          decimal.Decimal // precio vigente, entero positivo
	Capacity       int             // sillas al crear el vuelo
	SeatsAvailable int
	Airplane       string
	StaffID        *string // cajero dueño del vuelo (nullable)
	Status         string  // active, cancelled, completed
	CreatedAt      time.Time
}

// IsActive indica si el vuelo admite ventas.
func (f *Flight) IsActive() bool { return f.Status == FlightStatusActive }

// ValidFlightStatus valida un estado de vuelo.
func ValidFlightStatus(s string) bool {
	switch s {
	case FlightStatusActive, FlightStatusCancelled, FlightStatusCompleted:
		return true
	}
	return false
}
