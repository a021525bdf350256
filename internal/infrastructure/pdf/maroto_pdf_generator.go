// Package pdf genera los documentos imprimibles de la taquilla: el recibo del
// tiquete y el cuadre de caja diario.
//
// Layout del recibo (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Aerolínea          │  N° Tiquete + Fecha compra     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VUELO: número, ruta, salida / llegada                       │
//	│  PASAJERO: nombre + pasaporte                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGO: medio + valor             │  QR con el ID del tiquete │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/application/ports"
)

var _ ports.DocumentRenderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLoss    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa ports.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct {
	airline string
	printer *message.Printer
}

// NewMarotoRenderer construye el generador. airline se imprime en la cabecera.
func NewMarotoRenderer(airline string) *MarotoRenderer {
	return &MarotoRenderer{
		airline: nonEmpty(airline, "Tiquetes"),
		printer: message.NewPrinter(language.Spanish),
	}
}

func (g *MarotoRenderer) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.airline, true).
		Build()
	return maroto.New(cfg)
}

// TicketReceiptPDF recibo imprimible de un tiquete.
func (g *MarotoRenderer) TicketReceiptPDF(_ context.Context, t *dto.TicketResponse) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("pdf: tiquete vacío")
	}
	m := g.newDocument("Recibo de tiquete " + t.ID)

	m.AddRows(g.receiptHeaderRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(flightRow(t))
	m.AddRows(passengerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.paymentRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// DailyReportPDF cuadre de caja: totales, comisión y el detalle de ventas y devoluciones.
func (g *MarotoRenderer) DailyReportPDF(_ context.Context, r *dto.DailyReportResponse) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	m := g.newDocument("Cuadre de caja " + r.Date)

	m.AddRows(row.New(16).Add(
		col.New(7).Add(
			text.New(g.airline, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Cajero: "+r.CashierID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("CUADRE DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Date, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(r))

	m.AddRows(sectionTitle(fmt.Sprintf("VENTAS (%d)", r.SalesCount)))
	m.AddRows(tableHeaderRow("Vuelo", "Pasajero", "Medio", "Hora", "Valor"))
	for _, s := range r.Sales {
		m.AddRows(g.tableRow(s.FlightNumber, s.PassengerName, s.PaymentMethod, s.SaleDate.Format("15:04"), s.Amount, nil))
	}

	m.AddRows(sectionTitle(fmt.Sprintf("DEVOLUCIONES (%d)", r.ReturnsCount)))
	m.AddRows(tableHeaderRow("Vuelo", "Pasajero", "Motivo", "Hora", "Precio"))
	for _, rt := range r.Returns {
		m.AddRows(g.tableRow(rt.FlightNumber, rt.PassengerName, nonEmpty(rt.Reason, "—"), rt.ReturnDate.Format("15:04"), rt.Price, colorLoss))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Vuelos del día: %d   |   Sillas libres: %d   |   Ingreso potencial: %s",
			r.FlightsStats.FlightsCreated, r.FlightsStats.TotalSeats, g.money(r.FlightsStats.PotentialRevenue),
		), props.Text{Size: 8, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cuadre: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoRenderer) receiptHeaderRow(t *dto.TicketResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.airline, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Recibo de compra", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("TIQUETE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(t.ID, props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 7}),
			text.New("Fecha: "+t.PurchaseDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func flightRow(t *dto.TicketResponse) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("VUELO "+t.FlightNumber, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(t.DepartureCity+" → "+t.ArrivalCity, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
			text.New(fmt.Sprintf("Salida: %s   |   Llegada: %s",
				t.DepartureTime.Format("02/01/2006 15:04"),
				t.ArrivalTime.Format("02/01/2006 15:04"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func passengerRow(t *dto.TicketResponse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PASAJERO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   Pasaporte: %s", t.PassengerName, t.PassengerPassport),
				props.Text{Size: 9, Top: 6}),
		),
	)
}

func (g *MarotoRenderer) paymentRow(t *dto.TicketResponse) core.Row {
	amount := t.Amount
	if amount.IsZero() {
		amount = t.Price
	}
	return row.New(40).Add(
		col.New(8).Add(
			text.New("PAGO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Medio: "+paymentLabel(t.PaymentMethod), props.Text{Size: 9, Top: 7}),
			text.New("TOTAL: "+g.money(amount), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 14,
			}),
			text.New("Estado: "+t.Status, props.Text{Size: 8, Top: 22, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(t.ID, props.Rect{Percent: 90, Center: true})),
	)
}

func (g *MarotoRenderer) summaryRow(r *dto.DailyReportResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Color: c})
	}
	return row.New(22).Add(
		col.New(3).Add(label("Ventas:"), label("Comisión:")),
		col.New(3).Add(value(g.money(r.TotalSales), nil), value(g.money(r.Commission), colorPrimary)),
		col.New(3).Add(label("Devoluciones:"), label("Comisión perdida:")),
		col.New(3).Add(value(g.money(r.TotalReturns), nil), value(g.money(r.CommissionLoss), colorLoss)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
	))
}

// tableHeaderRow cabecera de cinco columnas con texto blanco.
func tableHeaderRow(c1, c2, c3, c4, c5 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(c1, 2, align.Left),
		h(c2, 4, align.Left),
		h(c3, 2, align.Center),
		h(c4, 1, align.Center),
		h(c5, 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoRenderer) tableRow(c1, c2, c3, c4 string, amount decimal.Decimal, c *props.Color) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(c1, 2, align.Left),
		cell(c2, 4, align.Left),
		cell(c3, 2, align.Center),
		cell(c4, 1, align.Center),
		col.New(3).Add(text.New(g.money(amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: c})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles del español: 25000 → "$25.000", 2,5 → "$2,50".
func (g *MarotoRenderer) money(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return g.printer.Sprintf("$%d", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return g.printer.Sprintf("$%.2f", f)
}

func paymentLabel(method string) string {
	switch method {
	case "card":
		return "Tarjeta"
	case "cash":
		return "Efectivo"
	default:
		return "—"
	}
}
