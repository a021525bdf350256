package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

type dailyReportService interface {
	DailyReport(ctx context.Context, actor entity.Actor, cashierID, date string) (*dto.DailyReportResponse, error)
	DailyReportPDF(ctx context.Context, actor entity.Actor, cashierID, date string) ([]byte, string, error)
}

type adminStatsService interface {
	Stats(ctx context.Context, actor entity.Actor) (*dto.AdminStatsResponse, error)
}

// ReportHandler cuadre de caja y panel de administración.
type ReportHandler struct {
	daily dailyReportService
	stats adminStatsService
}

// NewReportHandler construye el handler.
func NewReportHandler(daily dailyReportService, stats adminStatsService) *ReportHandler {
	return &ReportHandler{daily: daily, stats: stats}
}

// Daily godoc
// @Summary      Cuadre de caja diario
// @Description  Ventas, comisión (10%) y devoluciones de un cajero en un día. El cajero solo ve el suyo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        cashier_id  query  string  false  "Cajero (admin); por defecto el autenticado"
// @Param        date        query  string  false  "YYYY-MM-DD; por defecto hoy"
// @Param        format      query  string  false  "json | pdf"
// @Success      200  {object}  dto.DailyReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	cashierID := c.Query("cashier_id")
	if cashierID != "" {
		if _, err := uuid.Parse(cashierID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cashier_id inválido"})
		}
	}
	date := c.Query("date")
	if c.Query("format") == "pdf" {
		pdf, name, err := h.daily.DailyReportPDF(c.UserContext(), GetActor(c), cashierID, date)
		if err != nil {
			return respondError(c, err)
		}
		return sendPDF(c, pdf, name)
	}
	out, err := h.daily.DailyReport(c.UserContext(), GetActor(c), cashierID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AdminStats godoc
// @Summary      Contadores del panel de administración
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdminStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *ReportHandler) AdminStats(c *fiber.Ctx) error {
	out, err := h.stats.Stats(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
