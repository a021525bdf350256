package repository

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// SaleRepository registro de ventas (solo inserción).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByTicketID(ctx context.Context, ticketID string) (*entity.Sale, error)
}
