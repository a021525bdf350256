package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/application/usecase"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var (
	_ booking.BookingTxRunner = (*TxRunner)(nil)
	_ usecase.FlightTxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBooking inicia una transacción, ejecuta fn con los repos de vuelos, tiquetes, ventas y
// devoluciones atados a la tx y hace Commit. Cualquier error (o panic) deja la tx en Rollback.
func (r *TxRunner) RunBooking(ctx context.Context, fn func(
	flightRepo repository.FlightRepository,
	ticketRepo repository.TicketRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewFlightRepository(tx),
			NewTicketRepository(tx),
			NewSaleRepository(tx),
			NewReturnRepository(tx),
		)
	})
}

// RunFlight transacción para la edición administrativa de un vuelo.
func (r *TxRunner) RunFlight(ctx context.Context, fn func(flightRepo repository.FlightRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewFlightRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit transaction", fmt.Errorf("commit: %w", err))
	}
	return nil
}
