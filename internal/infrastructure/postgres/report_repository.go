package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el cuadre de caja y el panel de administración.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// dayRange [00:00, 24:00) del día calendario de day, en su propia zona.
func dayRange(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// SalesSummary cantidad y suma de montos capturados en las ventas del cajero.
func (r *ReportRepo) SalesSummary(ctx context.Context, cashierID string, day time.Time) (repository.SalesSummaryResult, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(s.amount), 0)
	FROM sales s
	WHERE s.cashier_id = $1
	  AND s.sale_date >= $2 AND s.sale_date < $3`

	from, to := dayRange(day)
	var res repository.SalesSummaryResult
	if err := r.q.QueryRow(ctx, query, cashierID, from, to).Scan(&res.Count, &res.Total); err != nil {
		return res, storageErr("report.SalesSummary", err)
	}
	return res, nil
}

// ReturnsSummary cantidad de devoluciones y suma del precio vigente de sus vuelos.
func (r *ReportRepo) ReturnsSummary(ctx context.Context, cashierID string, day time.Time) (repository.ReturnsSummaryResult, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(f.price), 0)
	FROM returns rt
	JOIN tickets t ON t.id = rt.ticket_id
	JOIN flights f ON f.id = t.flight_id
	WHERE rt.cashier_id = $1
	  AND rt.return_date >= $2 AND rt.return_date < $3`

	from, to := dayRange(day)
	var res repository.ReturnsSummaryResult
	if err := r.q.QueryRow(ctx, query, cashierID, from, to).Scan(&res.Count, &res.Total); err != nil {
		return res, storageErr("report.ReturnsSummary", err)
	}
	return res, nil
}

// SaleLines detalle de ventas del día, en orden cronológico.
func (r *ReportRepo) SaleLines(ctx context.Context, cashierID string, day time.Time) ([]repository.SaleLineResult, error) {
	const query = `
	SELECT s.id, t.id, f.flight_number, t.passenger_name, s.amount, s.payment_method, f.airplane, s.sale_date
	FROM sales s
	JOIN tickets t ON t.id = s.ticket_id
	JOIN flights f ON f.id = t.flight_id
	WHERE s.cashier_id = $1
	  AND s.sale_date >= $2 AND s.sale_date < $3
	ORDER BY s.sale_date`

	from, to := dayRange(day)
	rows, err := r.q.Query(ctx, query, cashierID, from, to)
	if err != nil {
		return nil, storageErr("report.SaleLines", err)
	}
	defer rows.Close()

	var results []repository.SaleLineResult
	for rows.Next() {
		var row repository.SaleLineResult
		if err := rows.Scan(
			&row.SaleID,
			&row.TicketID,
			&row.FlightNumber,
			&row.PassengerName,
			&row.Amount,
			&row.PaymentMethod,
			&row.Airplane,
			&row.SaleDate,
		); err != nil {
			return nil, storageErr("report.SaleLines scan", err)
		}
		results = append(results, row)
	}
	return results, storageErr("report.SaleLines", rows.Err())
}

// ReturnLines detalle de devoluciones del día con el precio vigente del vuelo.
func (r *ReportRepo) ReturnLines(ctx context.Context, cashierID string, day time.Time) ([]repository.ReturnLineResult, error) {
	const query = `
	SELECT rt.id, t.id, f.flight_number, t.passenger_name, f.price, rt.reason, rt.explanation, f.airplane, rt.return_date
	FROM returns rt
	JOIN tickets t ON t.id = rt.ticket_id
	JOIN flights f ON f.id = t.flight_id
	WHERE rt.cashier_id = $1
	  AND rt.return_date >= $2 AND rt.return_date < $3
	ORDER BY rt.return_date`

	from, to := dayRange(day)
	rows, err := r.q.Query(ctx, query, cashierID, from, to)
	if err != nil {
		return nil, storageErr("report.ReturnLines", err)
	}
	defer rows.Close()

	var results []repository.ReturnLineResult
	for rows.Next() {
		var row repository.ReturnLineResult
		if err := rows.Scan(
			&row.ReturnID,
			&row.TicketID,
			&row.FlightNumber,
			&row.PassengerName,
			&row.Price,
			&row.Reason,
			&row.Explanation,
			&row.Airplane,
			&row.ReturnDate,
		); err != nil {
			return nil, storageErr("report.ReturnLines scan", err)
		}
		results = append(results, row)
	}
	return results, storageErr("report.ReturnLines", rows.Err())
}

// FlightStats vuelos del cajero que salen ese día: cantidad, sillas libres e ingreso potencial.
func (r *ReportRepo) FlightStats(ctx context.Context, cashierID string, day time.Time) (repository.FlightStatsResult, error) {
	const query = `
	SELECT COUNT(*),
	       COALESCE(SUM(seats_available), 0),
	       COALESCE(SUM(price * seats_available), 0)
	FROM flights
	WHERE staff_id = $1
	  AND departure_time >= $2 AND departure_time < $3`

	from, to := dayRange(day)
	var res repository.FlightStatsResult
	err := r.q.QueryRow(ctx, query, cashierID, from, to).
		Scan(&res.FlightsCreated, &res.TotalSeats, &res.PotentialRevenue)
	if err != nil {
		return res, storageErr("report.FlightStats", err)
	}
	return res, nil
}

// AdminStats contadores globales del panel.
func (r *ReportRepo) AdminStats(ctx context.Context) (repository.AdminStatsResult, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM users   WHERE role = 'cashier'),
	    (SELECT COUNT(*) FROM users   WHERE role = 'client'),
	    (SELECT COUNT(*) FROM flights),
	    (SELECT COUNT(*) FROM tickets WHERE status = 'active')`

	var res repository.AdminStatsResult
	err := r.q.QueryRow(ctx, query).Scan(&res.Cashiers, &res.Clients, &res.Flights, &res.ActiveTickets)
	if err != nil {
		return res, storageErr("report.AdminStats", err)
	}
	return res, nil
}
