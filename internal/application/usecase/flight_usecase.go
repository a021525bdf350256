package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

const (
	defaultFlightLimit = 50
	maxFlightLimit     = 200
)

// FlightTxRunner transacción con el repositorio de vuelos atado a ella.
type FlightTxRunner interface {
	RunFlight(ctx context.Context, fn func(flightRepo repository.FlightRepository) error) error
}

// FlightUseCase búsqueda y administración de vuelos.
// El inventario de sillas solo cambia por compras y devoluciones; aquí solo se fija al crear
// o cuando el admin lo pide explícitamente al editar.
type FlightUseCase struct {
	txRunner FlightTxRunner
	repo     repository.FlightRepository
	userRepo repository.UserRepository
}

// NewFlightUseCase construye el caso de uso.
func NewFlightUseCase(txRunner FlightTxRunner, repo repository.FlightRepository, userRepo repository.UserRepository) *FlightUseCase {
	return &FlightUseCase{txRunner: txRunner, repo: repo, userRepo: userRepo}
}

// Search aplica los filtros según el rol:
//   - cliente: vuelos activos con sillas, por ciudades y fecha.
//   - cajero: vuelos activos, también por número de vuelo.
//   - admin: cualquier estado.
func (uc *FlightUseCase) Search(ctx context.Context, actor entity.Actor, q dto.SearchFlightsQuery) (*dto.FlightListResponse, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	f := repository.FlightFilter{
		DepartureCity: strings.TrimSpace(q.DepartureCity),
		ArrivalCity:   strings.TrimSpace(q.ArrivalCity),
		Date:          strings.TrimSpace(q.Date),
		Limit:         q.Limit,
	}
	if f.Date != "" {
		if _, err := time.Parse("2006-01-02", f.Date); err != nil {
			return nil, domain.NewValidationError("date", "use el formato YYYY-MM-DD")
		}
	}
	if f.Limit <= 0 {
		f.Limit = defaultFlightLimit
	}
	if f.Limit > maxFlightLimit {
		f.Limit = maxFlightLimit
	}

	switch actor.Role {
	case entity.RoleClient:
		f.Status = entity.FlightStatusActive
		f.OnlyWithSeats = true
	case entity.RoleCashier:
		f.Status = entity.FlightStatusActive
		f.FlightNumber = strings.TrimSpace(q.FlightNumber)
	case entity.RoleAdmin:
		f.FlightNumber = strings.TrimSpace(q.FlightNumber)
		if q.Status != "" {
			if !entity.ValidFlightStatus(q.Status) {
				return nil, domain.NewValidationError("status", "estado de vuelo no soportado")
			}
			f.Status = q.Status
		}
	}

	list, err := uc.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FlightResponse, 0, len(list))
	for _, fl := range list {
		items = append(items, *toFlightResponse(fl))
	}
	return &dto.FlightListResponse{Items: items}, nil
}

// Create crea un vuelo activo con capacidad = sillas disponibles = Seats.
// Un cajero queda como dueño del vuelo; el admin puede asignarlo a un cajero por teléfono.
func (uc *FlightUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateFlightRequest) (*dto.FlightResponse, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	flight := &entity.Flight{
		ID:             uuid.New().String(),
		FlightNumber:   strings.TrimSpace(in.FlightNumber),
		DepartureCity:  strings.TrimSpace(in.DepartureCity),
		ArrivalCity:    strings.TrimSpace(in.ArrivalCity),
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		Price:          in.Price,
		Capacity:       in.Seats,
		SeatsAvailable: in.Seats,
		Airplane:       strings.TrimSpace(in.Airplane),
		Status:         entity.FlightStatusActive,
		CreatedAt:      time.Now(),
	}
	if err := validateFlight(flight); err != nil {
		return nil, err
	}

	switch {
	case actor.Role == entity.RoleCashier:
		id := actor.ID
		flight.StaffID = &id
	case strings.TrimSpace(in.CashierPhone) != "":
		staff, err := uc.userRepo.GetByPhone(ctx, strings.TrimSpace(in.CashierPhone))
		if err != nil {
			return nil, err
		}
		if staff == nil || staff.Role != entity.RoleCashier {
			return nil, domain.NewValidationError("cashier_phone", "no existe un cajero con ese teléfono")
		}
		flight.StaffID = &staff.ID
	}

	if err := uc.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	return toFlightResponse(flight), nil
}

// Update edita un vuelo (solo admin). Solo se escriben los campos enviados.
//
// Lectura, validación y escritura corren en una tx con la fila bloqueada, de modo que una
// compra o devolución concurrente espera. Si se envía SeatsAvailable debe quedar en
// [0, capacidad - tiquetes activos].
func (uc *FlightUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateFlightRequest) (*dto.FlightResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	patch, err := uc.buildPatch(ctx, in)
	if err != nil {
		return nil, err
	}

	var updated *entity.Flight
	err = uc.txRunner.RunFlight(ctx, func(flights repository.FlightRepository) error {
		current, err := flights.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrFlightNotFound
		}
		merged := *current
		patch.Apply(&merged)
		if err := validateFlight(&merged); err != nil {
			return err
		}
		if patch.SeatsAvailable != nil {
			active, err := flights.CountActiveTickets(ctx, id)
			if err != nil {
				return err
			}
			if *patch.SeatsAvailable > merged.Capacity-active {
				return domain.NewValidationError("seats_available",
					fmt.Sprintf("con %d tiquetes activos no puede haber más de %d sillas libres", active, merged.Capacity-active))
			}
		}
		f, err := flights.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrFlightNotFound
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFlightResponse(updated), nil
}

// buildPatch normaliza la petición y resuelve el cajero fuera de la tx.
func (uc *FlightUseCase) buildPatch(ctx context.Context, in dto.UpdateFlightRequest) (repository.FlightPatch, error) {
	p := repository.FlightPatch{
		FlightNumber:   trimmed(in.FlightNumber),
		DepartureCity:  trimmed(in.DepartureCity),
		ArrivalCity:    trimmed(in.ArrivalCity),
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		Price:          in.Price,
		SeatsAvailable: in.SeatsAvailable,
		Airplane:       trimmed(in.Airplane),
		Status:         in.Status,
	}
	if p.Status != nil && !entity.ValidFlightStatus(*p.Status) {
		return p, domain.NewValidationError("status", "estado de vuelo no soportado")
	}
	if in.StaffID == nil {
		return p, nil
	}
	p.SetStaff = true
	if *in.StaffID == "" {
		return p, nil
	}
	staff, err := uc.userRepo.GetByID(ctx, *in.StaffID)
	if err != nil {
		return p, err
	}
	if staff == nil || staff.Role != entity.RoleCashier {
		return p, domain.NewValidationError("staff_id", "el cajero no existe")
	}
	p.StaffID = &staff.ID
	return p, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// Delete elimina un vuelo sin tiquetes activos (solo admin).
func (uc *FlightUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	flight, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrFlightNotFound
	}
	active, err := uc.repo.CountActiveTickets(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func validateFlight(f *entity.Flight) error {
	switch {
	case f.FlightNumber == "":
		return domain.NewValidationError("flight_number", "el número de vuelo es obligatorio")
	case f.DepartureCity == "" || f.ArrivalCity == "":
		return domain.NewValidationError("city", "ciudades de salida y llegada son obligatorias")
	case f.DepartureTime.IsZero() || f.ArrivalTime.IsZero():
		return domain.NewValidationError("time", "horas de salida y llegada son obligatorias")
	case !f.ArrivalTime.After(f.DepartureTime):
		return domain.NewValidationError("arrival_time", "la llegada debe ser posterior a la salida")
	case !f.Price.IsPositive() || !f.Price.Equal(f.Price.Truncate(0)):
		return domain.NewValidationError("price", "el precio debe ser un entero positivo")
	case f.Capacity <= 0:
		return domain.NewValidationError("seats", "la cantidad de sillas debe ser positiva")
	case f.SeatsAvailable < 0 || f.SeatsAvailable > f.Capacity:
		return domain.NewValidationError("seats_available", "las sillas disponibles deben estar entre 0 y la capacidad")
	}
	return nil
}

func toFlightResponse(f *entity.Flight) *dto.FlightResponse {
	if f == nil {
		return nil
	}
	return &dto.FlightResponse{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		DepartureCity:  f.DepartureCity,
		ArrivalCity:    f.ArrivalCity,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		Price:          f.Price,
		Capacity:       f.Capacity,
		SeatsAvailable: f.SeatsAvailable,
		Airplane:       f.Airplane,
		StaffID:        f.StaffID,
		Status:         f.Status,
		CreatedAt:      f.CreatedAt,
	}
}
