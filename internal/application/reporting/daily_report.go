// Package reporting contiene el cuadre de caja diario y los contadores del panel de administración.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/application/ports"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/booking"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// DailyReportUseCase genera el cuadre de caja de un cajero para un día calendario.
//
// Fuente de datos: ReportRepository (consultas read-only sobre el pool, sin transacción).
type DailyReportUseCase struct {
	repo     repository.ReportRepository
	renderer ports.DocumentRenderer
	loc      *time.Location
	now      func() time.Time
}

// NewDailyReportUseCase construye el caso de uso. loc define el día calendario (nil = time.Local).
func NewDailyReportUseCase(repo repository.ReportRepository, renderer ports.DocumentRenderer, loc *time.Location) *DailyReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DailyReportUseCase{repo: repo, renderer: renderer, loc: loc, now: time.Now}
}

// DailyReport arma el reporte. Un cajero solo ve el suyo; el admin el de cualquier cajero.
// cashierID vacío significa el propio actor; date vacío significa hoy.
//
// Cinco consultas en paralelo:
//  1. SalesSummary    → sales_count, total_sales
//  2. ReturnsSummary  → returns_count, total_returns (precio vigente del vuelo)
//  3. SaleLines       → detalle de ventas
//  4. ReturnLines     → detalle de devoluciones
//  5. FlightStats     → vuelos del cajero que salen ese día
func (uc *DailyReportUseCase) DailyReport(ctx context.Context, actor entity.Actor, cashierID, date string) (*dto.DailyReportResponse, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	cashierID = strings.TrimSpace(cashierID)
	if cashierID == "" {
		cashierID = actor.ID
	}
	if actor.Role == entity.RoleCashier && cashierID != actor.ID {
		return nil, domain.ErrForbidden
	}
	day, err := uc.parseDay(date)
	if err != nil {
		return nil, err
	}

	// ── Consultas en paralelo ─────────────────────────────────────────────────
	var (
		sales     repository.SalesSummaryResult
		returns   repository.ReturnsSummaryResult
		saleLines []repository.SaleLineResult
		retLines  []repository.ReturnLineResult
		flights   repository.FlightStatsResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = uc.repo.SalesSummary(gctx, cashierID, day)
		return wrap("ventas", err)
	})
	g.Go(func() (err error) {
		returns, err = uc.repo.ReturnsSummary(gctx, cashierID, day)
		return wrap("devoluciones", err)
	})
	g.Go(func() (err error) {
		saleLines, err = uc.repo.SaleLines(gctx, cashierID, day)
		return wrap("detalle de ventas", err)
	})
	g.Go(func() (err error) {
		retLines, err = uc.repo.ReturnLines(gctx, cashierID, day)
		return wrap("detalle de devoluciones", err)
	})
	g.Go(func() (err error) {
		flights, err = uc.repo.FlightStats(gctx, cashierID, day)
		return wrap("vuelos", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DailyReportResponse{
		CashierID:      cashierID,
		Date:           day.Format(dateLayout),
		SalesCount:     sales.Count,
		TotalSales:     sales.Total.Round(2),
		Commission:     booking.Commission(sales.Total),
		ReturnsCount:   returns.Count,
		TotalReturns:   returns.Total.Round(2),
		CommissionLoss: booking.Commission(returns.Total),
		Sales:          make([]dto.SaleLineDTO, 0, len(saleLines)),
		Returns:        make([]dto.ReturnLineDTO, 0, len(retLines)),
		FlightsStats: dto.FlightsStatsDTO{
			FlightsCreated:   flights.FlightsCreated,
			TotalSeats:       flights.TotalSeats,
			PotentialRevenue: flights.PotentialRevenue.Round(2),
		},
	}
	for _, l := range saleLines {
		out.Sales = append(out.Sales, dto.SaleLineDTO{
			SaleID:        l.SaleID,
			TicketID:      l.TicketID,
			FlightNumber:  l.FlightNumber,
			PassengerName: l.PassengerName,
			Amount:        l.Amount,
			PaymentMethod: l.PaymentMethod,
			Airplane:      l.Airplane,
			SaleDate:      l.SaleDate,
		})
	}
	for _, l := range retLines {
		out.Returns = append(out.Returns, dto.ReturnLineDTO{
			ReturnID:      l.ReturnID,
			TicketID:      l.TicketID,
			FlightNumber:  l.FlightNumber,
			PassengerName: l.PassengerName,
			Price:         l.Price,
			Reason:        l.Reason,
			Explanation:   l.Explanation,
			Airplane:      l.Airplane,
			ReturnDate:    l.ReturnDate,
		})
	}
	return out, nil
}

// DailyReportPDF el mismo reporte en PDF. Retorna los bytes y el nombre de archivo sugerido.
func (uc *DailyReportUseCase) DailyReportPDF(ctx context.Context, actor entity.Actor, cashierID, date string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("reporte: generador de PDF no configurado")
	}
	r, err := uc.DailyReport(ctx, actor, cashierID, date)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.DailyReportPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("cuadre-%s.pdf", r.Date), nil
}

// parseDay devuelve la medianoche del día pedido en la zona configurada.
func (uc *DailyReportUseCase) parseDay(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := uc.now().In(uc.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, uc.loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "use el formato YYYY-MM-DD")
	}
	return day, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("reporte: %s: %w", what, err)
}
