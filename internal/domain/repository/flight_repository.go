package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// FlightFilter criterios de búsqueda de vuelos. Los campos vacíos no filtran.
type FlightFilter struct {
	DepartureCity string // subcadena
	ArrivalCity   string // subcadena
	Date          string // prefijo de fecha de salida, YYYY-MM-DD
	FlightNumber  string // subcadena
	Status        string // exacto
	OnlyWithSeats bool   // seats_available > 0
	Limit         int
}

// FlightPatch edición parcial de un vuelo. Solo los campos no nil se escriben.
// SeatsAvailable queda nil en cualquier edición que no pida ajustar sillas, así
// una compra o devolución concurrente nunca se pisa.
type FlightPatch struct {
	FlightNumber   *string
	DepartureCity  *string
	ArrivalCity    *string
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	Price          *decimal.Decimal
	SeatsAvailable *int
	Airplane       *string
	Status         *string
	SetStaff       bool    // true: escribe StaffID (nil desasigna)
	StaffID        *string
}

// Empty true si el patch no cambia nada.
func (p FlightPatch) Empty() bool {
	return p.FlightNumber == nil && p.DepartureCity == nil && p.ArrivalCity == nil &&
		p.DepartureTime == nil && p.ArrivalTime == nil && p.Price == nil &&
		p.SeatsAvailable == nil && p.Airplane == nil && p.Status == nil && !p.SetStaff
}

// Apply copia sobre f los campos presentes en el patch.
func (p FlightPatch) Apply(f *entity.Flight) {
	if p.FlightNumber != nil {
		f.FlightNumber = *p.FlightNumber
	}
	if p.DepartureCity != nil {
		f.DepartureCity = *p.DepartureCity
	}
	if p.ArrivalCity != nil {
		f.ArrivalCity = *p.ArrivalCity
	}
	if p.DepartureTime != nil {
		f.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		f.ArrivalTime = *p.ArrivalTime
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.SeatsAvailable != nil {
		f.SeatsAvailable = *p.SeatsAvailable
	}
	if p.Airplane != nil {
		f.Airplane = *p.Airplane
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.SetStaff {
		f.StaffID = p.StaffID
	}
}

// FlightRepository define el puerto de persistencia para vuelos e inventario de sillas.
// Usado dentro de transacciones para garantizar consistencia.
type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Flight, error)
	// GetForUpdate lee el vuelo bloqueando su fila hasta el fin de la tx (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Flight, error)
	Search(ctx context.Context, f FlightFilter) ([]*entity.Flight, error)
	Create(ctx context.Context, flight *entity.Flight) error
	// Update escribe solo las columnas presentes en el patch y devuelve la fila resultante.
	// (nil, nil) si el vuelo no existe.
	Update(ctx context.Context, id string, patch FlightPatch) (*entity.Flight, error)
	Delete(ctx context.Context, id string) error
	CountActiveTickets(ctx context.Context, flightID string) (int, error)
	// DecrementSeat resta una silla solo si el vuelo está activo y tiene sillas (UPDATE condicional).
	// reserved=false cuando ninguna fila cumplió la condición.
	DecrementSeat(ctx context.Context, flightID string) (reserved bool, err error)
	// IncrementSeat suma una silla sin condición. updated=false si el vuelo no existe.
	IncrementSeat(ctx context.Context, flightID string) (updated bool, err error)
}
