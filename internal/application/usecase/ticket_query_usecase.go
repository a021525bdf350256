package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/application/ports"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

// TicketQueryUseCase lecturas de tiquetes: mis tiquetes, búsqueda en caja y recibo.
type TicketQueryUseCase struct {
	repo     repository.TicketRepository
	renderer ports.DocumentRenderer
}

// NewTicketQueryUseCase construye el caso de uso. renderer puede ser nil (sin PDF).
func NewTicketQueryUseCase(repo repository.TicketRepository, renderer ports.DocumentRenderer) *TicketQueryUseCase {
	return &TicketQueryUseCase{repo: repo, renderer: renderer}
}

// Mine tiquetes activos del cliente autenticado.
func (uc *TicketQueryUseCase) Mine(ctx context.Context, actor entity.Actor) (*dto.TicketListResponse, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.repo.ListActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toTicketList(list), nil
}

// Search busca tiquetes activos por ID, pasaporte o teléfono (caja). Exige al menos un criterio.
func (uc *TicketQueryUseCase) Search(ctx context.Context, actor entity.Actor, q dto.SearchTicketsQuery) (*dto.TicketListResponse, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	f := repository.TicketFilter{
		TicketID:          strings.TrimSpace(q.TicketID),
		PassengerPassport: strings.TrimSpace(q.Passport),
		OwnerPhone:        strings.TrimSpace(q.Phone),
		Limit:             q.Limit,
	}
	if f.TicketID == "" && f.PassengerPassport == "" && f.OwnerPhone == "" {
		return nil, domain.NewValidationError("query", "indique tiquete, pasaporte o teléfono")
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	list, err := uc.repo.FindActive(ctx, f)
	if err != nil {
		return nil, err
	}
	return toTicketList(list), nil
}

// Receipt recibo de venta de un tiquete (cualquier estado).
func (uc *TicketQueryUseCase) Receipt(ctx context.Context, actor entity.Actor, ticketID string) (*dto.TicketResponse, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	d, err := uc.repo.GetDetail(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrTicketNotFound
	}
	return toTicketResponse(d), nil
}

// ReceiptPDF recibo en PDF. Retorna los bytes y el nombre de archivo sugerido.
func (uc *TicketQueryUseCase) ReceiptPDF(ctx context.Context, actor entity.Actor, ticketID string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("recibo: generador de PDF no configurado")
	}
	r, err := uc.Receipt(ctx, actor, ticketID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.TicketReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", r.ID), nil
}

func toTicketList(list []*entity.TicketDetail) *dto.TicketListResponse {
	items := make([]dto.TicketResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toTicketResponse(d))
	}
	return &dto.TicketListResponse{Items: items}
}

func toTicketResponse(d *entity.TicketDetail) *dto.TicketResponse {
	if d == nil {
		return nil
	}
	return &dto.TicketResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		FlightID:          d.FlightID,
		FlightNumber:      d.FlightNumber,
		DepartureCity:     d.DepartureCity,
		ArrivalCity:       d.ArrivalCity,
		DepartureTime:     d.DepartureTime,
		ArrivalTime:       d.ArrivalTime,
		PassengerName:     d.PassengerName,
		PassengerPassport: d.PassengerPassport,
		PurchaseDate:      d.PurchaseDate,
		Status:            d.Status,
		Price:             d.Price,
		OwnerPhone:        d.OwnerPhone,
		PaymentMethod:     d.PaymentMethod,
		Amount:            d.SaleAmount,
	}
}
