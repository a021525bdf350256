package repository

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// TicketFilter criterios de búsqueda de tiquetes activos en caja.
type TicketFilter struct {
	TicketID          string // exacto
	PassengerPassport string // subcadena
	OwnerPhone        string // subcadena
	Limit             int
}

// TicketRepository define el puerto de persistencia para tiquetes.
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	GetDetail(ctx context.Context, id string) (*entity.TicketDetail, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.TicketDetail, error)
	FindActive(ctx context.Context, f TicketFilter) ([]*entity.TicketDetail, error)
	// MarkReturned pasa el tiquete de active a returned (UPDATE condicional).
	// returned=false si el tiquete no existía o ya no estaba activo.
	MarkReturned(ctx context.Context, ticketID string) (returned bool, err error)
}
