package postgres

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo registro de ventas (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta. ticket_id es único: una segunda venta del mismo tiquete falla.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, ticket_id, cashier_id, amount, payment_method, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.TicketID, sale.CashierID, sale.Amount, sale.PaymentMethod, sale.SaleDate,
	)
	return storageErr("insert sale", err)
}

// GetByTicketID obtiene la venta de un tiquete. (nil, nil) si no existe.
func (r *SaleRepo) GetByTicketID(ctx context.Context, ticketID string) (*entity.Sale, error) {
	query := `
		SELECT id, ticket_id, cashier_id, amount, payment_method, sale_date
		FROM sales WHERE ticket_id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, ticketID).Scan(
		&s.ID, &s.TicketID, &s.CashierID, &s.Amount, &s.PaymentMethod, &s.SaleDate,
	)
	if err != nil {
		return nil, notFoundOr("get sale by ticket", err)
	}
	return &s, nil
}
