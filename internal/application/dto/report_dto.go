package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReportResponse cuadre de caja de un cajero en un día.
type DailyReportResponse struct {
	CashierID      string          `json:"cashier_id"`
	Date           string          `json:"date"` // YYYY-MM-DD
	SalesCount     int             `json:"sales_count"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	Commission     decimal.Decimal `json:"commission"` // 10% de total_sales
	ReturnsCount   int             `json:"returns_count"`
	TotalReturns   decimal.Decimal `json:"total_returns"`   // precio vigente de los vuelos devueltos
	CommissionLoss decimal.Decimal `json:"commission_loss"` // 10% de total_returns
	Sales          []SaleLineDTO   `json:"sales"`
	Returns        []ReturnLineDTO `json:"returns"`
	FlightsStats   FlightsStatsDTO `json:"flights_stats"`
}

// SaleLineDTO detalle de una venta del día.
type SaleLineDTO struct {
	SaleID        string          `json:"sale_id"`
	TicketID      string          `json:"ticket_id"`
	FlightNumber  string          `json:"flight_number"`
	PassengerName string          `json:"passenger_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Airplane      string          `json:"airplane"`
	SaleDate      time.Time       `json:"sale_date"`
}

// ReturnLineDTO detalle de una devolución del día.
type ReturnLineDTO struct {
	ReturnID      string          `json:"return_id"`
	TicketID      string          `json:"ticket_id"`
	FlightNumber  string          `json:"flight_number"`
	PassengerName string          `json:"passenger_name"`
	Price         decimal.Decimal `json:"price"`
	Reason        string          `json:"reason"`
	Explanation   string          `json:"explanation"`
	Airplane      string          `json:"airplane"`
	ReturnDate    time.Time       `json:"return_date"`
}

// FlightsStatsDTO vuelos del cajero que salen ese día.
type FlightsStatsDTO struct {
	FlightsCreated   int             `json:"flights_created"`
	TotalSeats       int             `json:"total_seats"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}

// AdminStatsResponse contadores del panel de administración.
type AdminStatsResponse struct {
	Cashiers      int `json:"cashiers"`
	Clients       int `json:"clients"`
	Flights       int `json:"flights"`
	ActiveTickets int `json:"active_tickets"`
}
