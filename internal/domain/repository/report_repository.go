package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult totales de ventas de un cajero en un día.
type SalesSummaryResult struct {
	Count int
	Total decimal.Decimal // Σ amount capturado en la venta
}

// ReturnsSummaryResult totales de devoluciones de un cajero en un día.
type ReturnsSummaryResult struct {
	Count int
	Total decimal.Decimal // Σ precio VIGENTE del vuelo (join tiquete → vuelo)
}

// SaleLineResult línea de detalle de una venta.
type SaleLineResult struct {
	SaleID        string
	TicketID      string
	FlightNumber  string
	PassengerName string
	Amount        decimal.Decimal
	PaymentMethod string
	Airplane      string
	SaleDate      time.Time
}

// ReturnLineResult línea de detalle de una devolución.
type ReturnLineResult struct {
	ReturnID      string
	TicketID      string
	FlightNumber  string
	PassengerName string
	Price         decimal.Decimal // precio vigente del vuelo
	Reason        string
	Explanation   string
	Airplane      string
	ReturnDate    time.Time
}

// FlightStatsResult vuelos de un cajero que salen en un día.
type FlightStatsResult struct {
	FlightsCreated   int
	TotalSeats       int             // Σ seats_available
	PotentialRevenue decimal.Decimal // Σ price * seats_available
}

// AdminStatsResult contadores del panel de administración.
type AdminStatsResult struct {
	Cashiers      int
	Clients       int
	Flights       int
	ActiveTickets int
}

// ReportRepository define las consultas de lectura del cuadre de caja.
// Las implementaciones son read-only (no modifican datos).
// day se interpreta como día calendario [00:00, 24:00) en la zona del time.Time recibido.
type ReportRepository interface {
	SalesSummary(ctx context.Context, cashierID string, day time.Time) (SalesSummaryResult, error)
	ReturnsSummary(ctx context.Context, cashierID string, day time.Time) (ReturnsSummaryResult, error)
	SaleLines(ctx context.Context, cashierID string, day time.Time) ([]SaleLineResult, error)
	ReturnLines(ctx context.Context, cashierID string, day time.Time) ([]ReturnLineResult, error)
	FlightStats(ctx context.Context, cashierID string, day time.Time) (FlightStatsResult, error)
	AdminStats(ctx context.Context) (AdminStatsResult, error)
}
