package reporting

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

// AdminStatsUseCase contadores del panel de administración.
type AdminStatsUseCase struct {
	repo repository.ReportRepository
}

// NewAdminStatsUseCase construye el caso de uso.
func NewAdminStatsUseCase(repo repository.ReportRepository) *AdminStatsUseCase {
	return &AdminStatsUseCase{repo: repo}
}

// Stats cajeros, clientes, vuelos y tiquetes activos. Solo admin.
func (uc *AdminStatsUseCase) Stats(ctx context.Context, actor entity.Actor) (*dto.AdminStatsResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	s, err := uc.repo.AdminStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminStatsResponse{
		Cashiers:      s.Cashiers,
		Clients:       s.Clients,
		Flights:       s.Flights,
		ActiveTickets: s.ActiveTickets,
	}, nil
}
