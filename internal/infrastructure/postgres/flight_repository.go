package postgres

import (
	"context"
	"strings"

	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var _ repository.FlightRepository = (*FlightRepo)(nil)

// FlightRepo implementación del puerto FlightRepository sobre PostgreSQL (usable con pool o tx).
type FlightRepo struct {
	q Querier
}

// NewFlightRepository construye el adaptador de persistencia para vuelos. Pasar pool o tx (Querier).
func NewFlightRepository(q Querier) *FlightRepo {
	return &FlightRepo{q: q}
}

const flightColumns = `id, flight_number, departure_city, arrival_city, departure_time, arrival_time,
	price, capacity, seats_available, airplane, staff_id, status, created_at`

func scanFlight(row interface{ Scan(...any) error }) (*entity.Flight, error) {
	var f entity.Flight
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime,
		&f.Price, &f.Capacity, &f.SeatsAvailable, &f.Airplane, &f.StaffID, &f.Status, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID obtiene un vuelo por ID. (nil, nil) si no existe.
func (r *FlightRepo) GetByID(ctx context.Context, id string) (*entity.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	f, err := scanFlight(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr("get flight", err)
	}
	return f, nil
}

// GetForUpdate como GetByID pero bloquea la fila; solo tiene sentido dentro de una tx.
func (r *FlightRepo) GetForUpdate(ctx context.Context, id string) (*entity.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1 FOR UPDATE`
	f, err := scanFlight(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr("lock flight", err)
	}
	return f, nil
}

// Search busca vuelos por subcadena de ciudades y número, prefijo de fecha y estado.
func (r *FlightRepo) Search(ctx context.Context, f repository.FlightFilter) ([]*entity.Flight, error) {
	var a argList
	var where []string
	if f.DepartureCity != "" {
		where = append(where, "departure_city ILIKE "+a.add(likePattern(f.DepartureCity)))
	}
	if f.ArrivalCity != "" {
		where = append(where, "arrival_city ILIKE "+a.add(likePattern(f.ArrivalCity)))
	}
	if f.FlightNumber != "" {
		where = append(where, "flight_number ILIKE "+a.add(likePattern(f.FlightNumber)))
	}
	if f.Date != "" {
		where = append(where, "to_char(departure_time, 'YYYY-MM-DD') = "+a.add(f.Date))
	}
	if f.Status != "" {
		where = append(where, "status = "+a.add(f.Status))
	}
	if f.OnlyWithSeats {
		where = append(where, "seats_available > 0")
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY departure_time"
	if f.Limit > 0 {
		query += " LIMIT " + a.add(f.Limit)
	}

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, storageErr("search flights", err)
	}
	defer rows.Close()

	var list []*entity.Flight
	for rows.Next() {
		fl, err := scanFlight(rows)
		if err != nil {
			return nil, storageErr("scan flight", err)
		}
		list = append(list, fl)
	}
	return list, storageErr("search flights", rows.Err())
}

// Create persiste un vuelo nuevo.
func (r *FlightRepo) Create(ctx context.Context, f *entity.Flight) error {
	query := `
		INSERT INTO flights (` + flightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.FlightNumber, f.DepartureCity, f.ArrivalCity, f.DepartureTime, f.ArrivalTime,
		f.Price, f.Capacity, f.SeatsAvailable, f.Airplane, f.StaffID, f.Status, f.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("flight", "los datos del vuelo violan una restricción")
		}
		return storageErr("insert flight", err)
	}
	return nil
}

// Update escribe solo las columnas del patch. seats_available no se toca salvo que
// el patch lo traiga; el resto del inventario lo mueven DecrementSeat/IncrementSeat.
func (r *FlightRepo) Update(ctx context.Context, id string, p repository.FlightPatch) (*entity.Flight, error) {
	if p.Empty() {
		return r.GetByID(ctx, id)
	}
	var a argList
	var set []string
	if p.FlightNumber != nil {
		set = append(set, "flight_number = "+a.add(*p.FlightNumber))
	}
	if p.DepartureCity != nil {
		set = append(set, "departure_city = "+a.add(*p.DepartureCity))
	}
	if p.ArrivalCity != nil {
		set = append(set, "arrival_city = "+a.add(*p.ArrivalCity))
	}
	if p.DepartureTime != nil {
		set = append(set, "departure_time = "+a.add(*p.DepartureTime))
	}
	if p.ArrivalTime != nil {
		set = append(set, "arrival_time = "+a.add(*p.ArrivalTime))
	}
	if p.Price != nil {
		set = append(set, "price = "+a.add(*p.Price))
	}
	if p.SeatsAvailable != nil {
		set = append(set, "seats_available = "+a.add(*p.SeatsAvailable))
	}
	if p.Airplane != nil {
		set = append(set, "airplane = "+a.add(*p.Airplane))
	}
	if p.Status != nil {
		set = append(set, "status = "+a.add(*p.Status))
	}
	if p.SetStaff {
		set = append(set, "staff_id = "+a.add(p.StaffID))
	}

	query := `UPDATE flights SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + a.add(id) + ` RETURNING ` + flightColumns
	f, err := scanFlight(r.q.QueryRow(ctx, query, a.args...))
	if err != nil {
		if isCheckViolation(err) {
			return nil, domain.NewValidationError("flight", "los datos del vuelo violan una restricción")
		}
		return nil, notFoundOr("update flight", err)
	}
	return f, nil
}

// Delete elimina un vuelo. Si aún lo referencian tiquetes (devueltos) responde ErrConflict.
func (r *FlightRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrConflict
		}
		return storageErr("delete flight", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// CountActiveTickets cuenta los tiquetes activos del vuelo.
func (r *FlightRepo) CountActiveTickets(ctx context.Context, flightID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE flight_id = $1 AND status = 'active'`, flightID,
	).Scan(&n)
	if err != nil {
		return 0, storageErr("count active tickets", err)
	}
	return n, nil
}

// DecrementSeat resta una silla con un único UPDATE condicional.
// La fila queda bloqueada hasta el fin de la tx; la concurrente espera y reevalúa la condición.
// Un ID mal formado aborta la tx en Postgres: se responde ErrFlightNotFound sin volver a consultar.
func (r *FlightRepo) DecrementSeat(ctx context.Context, flightID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE flights
		SET seats_available = seats_available - 1
		WHERE id = $1 AND status = 'active' AND seats_available > 0`, flightID)
	if err != nil {
		if isInvalidText(err) {
			return false, domain.ErrFlightNotFound
		}
		return false, storageErr("reserve seat", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementSeat suma una silla. El CHECK seats_available <= capacity convierte un exceso en error.
func (r *FlightRepo) IncrementSeat(ctx context.Context, flightID string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE flights SET seats_available = seats_available + 1 WHERE id = $1`, flightID)
	if err != nil {
		if isInvalidText(err) {
			return false, domain.ErrFlightNotFound
		}
		return false, storageErr("release seat", err)
	}
	return tag.RowsAffected() == 1, nil
}
