package repository

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// ReturnRepository registro de devoluciones (solo inserción).
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.TicketReturn) error
	GetByTicketID(ctx context.Context, ticketID string) (*entity.TicketReturn, error)
}
