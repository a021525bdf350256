package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

// SeatManager ajusta el inventario de sillas de un vuelo.
// No abre transacciones: opera con el FlightRepository que le entrega el caller,
// atado a la transacción del flujo de compra o devolución.
type SeatManager struct{}

// NewSeatManager construye el administrador de sillas.
func NewSeatManager() *SeatManager {
	return &SeatManager{}
}

// ReserveSeat descuenta exactamente una silla con un único UPDATE condicional
// (status = 'active' AND seats_available > 0). Dos reservas concurrentes sobre la
// última silla no pueden tener éxito ambas: la cuenta de filas afectadas es la señal.
//
// Si no se afectó ninguna fila, una sola lectura clasifica el fallo:
//   - domain.ErrFlightNotFound  si el vuelo no existe.
//   - domain.ErrFlightInactive  si el vuelo no está activo.
//   - domain.ErrSoldOut         si no quedan sillas.
func (m *SeatManager) ReserveSeat(ctx context.Context, flights repository.FlightRepository, flightID string) error {
	reserved, err := flights.DecrementSeat(ctx, flightID)
	if err != nil {
		return err
	}
	if reserved {
		return nil
	}
	flight, err := flights.GetByID(ctx, flightID)
	if err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrFlightNotFound
	}
	if !flight.IsActive() {
		return fmt.Errorf("%w: estado %s", domain.ErrFlightInactive, flight.Status)
	}
	return domain.ErrSoldOut
}

// ReleaseSeat suma una silla sin condición ni tope. La única salvaguarda contra
// liberar dos veces es la transición active→returned del tiquete.
func (m *SeatManager) ReleaseSeat(ctx context.Context, flights repository.FlightRepository, flightID string) error {
	updated, err := flights.IncrementSeat(ctx, flightID)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrFlightNotFound
	}
	return nil
}
