package postgres

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo registro de devoluciones (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create inserta la devolución.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.TicketReturn) error {
	query := `
		INSERT INTO returns (id, ticket_id, cashier_id, reason, explanation, return_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.TicketID, ret.CashierID, ret.Reason, ret.Explanation, ret.ReturnDate,
	)
	return storageErr("insert return", err)
}

// GetByTicketID obtiene la devolución de un tiquete. (nil, nil) si no existe.
func (r *ReturnRepo) GetByTicketID(ctx context.Context, ticketID string) (*entity.TicketReturn, error) {
	query := `
		SELECT id, ticket_id, cashier_id, reason, explanation, return_date
		FROM returns WHERE ticket_id = $1`
	var t entity.TicketReturn
	err := r.q.QueryRow(ctx, query, ticketID).Scan(
		&t.ID, &t.TicketID, &t.CashierID, &t.Reason, &t.Explanation, &t.ReturnDate,
	)
	if err != nil {
		return nil, notFoundOr("get return by ticket", err)
	}
	return &t, nil
}
