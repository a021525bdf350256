package postgres

import (
	"context"
	"strings"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo implementación de TicketRepository (usable con pool o tx).
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, user_id, flight_id, passenger_name, passenger_passport, purchase_date, status`

// detailSelect tiquete + vuelo + dueño + venta (si existe).
const detailSelect = `
	SELECT t.id, t.user_id, t.flight_id, t.passenger_name, t.passenger_passport, t.purchase_date, t.status,
	       f.flight_number, f.departure_city, f.arrival_city, f.departure_time, f.arrival_time, f.price,
	       u.phone, COALESCE(s.payment_method, ''), COALESCE(s.amount, 0)
	FROM tickets t
	JOIN flights f ON f.id = t.flight_id
	JOIN users u ON u.id = t.user_id
	LEFT JOIN sales s ON s.ticket_id = t.id`

func scanDetail(row interface{ Scan(...any) error }) (*entity.TicketDetail, error) {
	var d entity.TicketDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.FlightID, &d.PassengerName, &d.PassengerPassport, &d.PurchaseDate, &d.Status,
		&d.FlightNumber, &d.DepartureCity, &d.ArrivalCity, &d.DepartureTime, &d.ArrivalTime, &d.Price,
		&d.OwnerPhone, &d.PaymentMethod, &d.SaleAmount,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta el tiquete.
func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	query := `INSERT INTO tickets (` + ticketColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.UserID, t.FlightID, t.PassengerName, t.PassengerPassport, t.PurchaseDate, t.Status,
	)
	return storageErr("insert ticket", err)
}

// GetByID obtiene un tiquete. (nil, nil) si no existe.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	var t entity.Ticket
	err := r.q.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id).Scan(
		&t.ID, &t.UserID, &t.FlightID, &t.PassengerName, &t.PassengerPassport, &t.PurchaseDate, &t.Status,
	)
	if err != nil {
		return nil, notFoundOr("get ticket", err)
	}
	return &t, nil
}

// GetDetail obtiene el tiquete enriquecido para el recibo.
func (r *TicketRepo) GetDetail(ctx context.Context, id string) (*entity.TicketDetail, error) {
	d, err := scanDetail(r.q.QueryRow(ctx, detailSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("get ticket detail", err)
	}
	return d, nil
}

// ListActiveByUser tiquetes activos del usuario, el más reciente primero.
func (r *TicketRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.TicketDetail, error) {
	query := detailSelect + `
	WHERE t.user_id = $1 AND t.status = 'active'
	ORDER BY t.purchase_date DESC`
	return r.listDetails(ctx, "list tickets by user", query, userID)
}

// FindActive búsqueda en caja: ID exacto, subcadena de pasaporte o teléfono del dueño.
func (r *TicketRepo) FindActive(ctx context.Context, f repository.TicketFilter) ([]*entity.TicketDetail, error) {
	var a argList
	where := []string{"t.status = 'active'"}
	if f.TicketID != "" {
		where = append(where, "t.id::text = "+a.add(f.TicketID))
	}
	if f.PassengerPassport != "" {
		where = append(where, "t.passenger_passport ILIKE "+a.add(likePattern(f.PassengerPassport)))
	}
	if f.OwnerPhone != "" {
		where = append(where, "u.phone ILIKE "+a.add(likePattern(f.OwnerPhone)))
	}
	query := detailSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY t.purchase_date DESC"
	if f.Limit > 0 {
		query += " LIMIT " + a.add(f.Limit)
	}
	return r.listDetails(ctx, "find active tickets", query, a.args...)
}

// MarkReturned transición active→returned con UPDATE condicional.
func (r *TicketRepo) MarkReturned(ctx context.Context, ticketID string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE tickets SET status = 'returned' WHERE id = $1 AND status = 'active'`, ticketID)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, storageErr("mark ticket returned", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TicketRepo) listDetails(ctx context.Context, op, query string, args ...any) ([]*entity.TicketDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var list []*entity.TicketDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		list = append(list, d)
	}
	return list, storageErr(op, rows.Err())
}
