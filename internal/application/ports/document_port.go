package ports

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
)

// DocumentRenderer puerto de salida para los documentos imprimibles (recibo y cuadre de caja).
// El adaptador concreto (maroto) vive en infrastructure/pdf.
type DocumentRenderer interface {
	// TicketReceiptPDF recibo de venta de un tiquete.
	TicketReceiptPDF(ctx context.Context, ticket *dto.TicketResponse) ([]byte, error)
	// DailyReportPDF cuadre de caja diario de un cajero.
	DailyReportPDF(ctx context.Context, report *dto.DailyReportResponse) ([]byte, error)
}
