package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

type purchaseService interface {
	Purchase(ctx context.Context, actor entity.Actor, in booking.PurchaseInput) (string, error)
	SellByPhone(ctx context.Context, actor entity.Actor, in booking.SellByPhoneInput) (string, error)
}

type returnService interface {
	Return(ctx context.Context, actor entity.Actor, in booking.ReturnInput) (*booking.ReturnResult, error)
}

type ticketQueryService interface {
	Mine(ctx context.Context, actor entity.Actor) (*dto.TicketListResponse, error)
	Search(ctx context.Context, actor entity.Actor, q dto.SearchTicketsQuery) (*dto.TicketListResponse, error)
	Receipt(ctx context.Context, actor entity.Actor, ticketID string) (*dto.TicketResponse, error)
	ReceiptPDF(ctx context.Context, actor entity.Actor, ticketID string) ([]byte, string, error)
}

// TicketHandler compra, venta en caja, devolución y consultas de tiquetes.
type TicketHandler struct {
	purchase purchaseService
	ret      returnService
	query    ticketQueryService
}

// NewTicketHandler construye el handler.
func NewTicketHandler(purchase purchaseService, ret returnService, query ticketQueryService) *TicketHandler {
	return &TicketHandler{purchase: purchase, ret: ret, query: query}
}

// Purchase godoc
// @Summary      Comprar tiquete
// @Description  El cliente compra para sí mismo; cajero y admin indican buyer_user_id. Acepta Idempotency-Key.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de reintento"
// @Param        body  body  dto.PurchaseTicketRequest  true  "Vuelo y pasajero"
// @Success      201   {object}  dto.PurchaseTicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/purchase [post]
func (h *TicketHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.purchase.Purchase(c.UserContext(), GetActor(c), booking.PurchaseInput{
		FlightID:          in.FlightID,
		BuyerUserID:       in.BuyerUserID,
		PassengerName:     in.PassengerName,
		PassengerPassport: in.PassengerPassport,
		PaymentMethod:     in.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseTicketResponse{TicketID: id})
}

// Sell godoc
// @Summary      Vender tiquete en caja
// @Description  Identifica al cliente por teléfono. Acepta Idempotency-Key.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de reintento"
// @Param        body  body  dto.SellTicketRequest  true  "Vuelo, teléfono del cliente y pasajero"
// @Success      201   {object}  dto.PurchaseTicketResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/sell [post]
func (h *TicketHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.purchase.SellByPhone(c.UserContext(), GetActor(c), booking.SellByPhoneInput{
		FlightID:          in.FlightID,
		ClientPhone:       in.ClientPhone,
		PassengerName:     in.PassengerName,
		PassengerPassport: in.PassengerPassport,
		PaymentMethod:     in.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseTicketResponse{TicketID: id})
}

// Return godoc
// @Summary      Devolver tiquete
// @Description  El cliente solo devuelve sus tiquetes y sin motivo; la caja puede indicar motivo y explicación.
// @Tags         tickets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tiquete"
// @Param        body  body  dto.ReturnTicketRequest  false  "Motivo (caja)"
// @Success      200   {object}  dto.ReturnTicketResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/return [post]
func (h *TicketHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.ret.Return(c.UserContext(), GetActor(c), booking.ReturnInput{
		TicketID:    c.Params("id"),
		Reason:      in.Reason,
		Explanation: in.Explanation,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReturnTicketResponse{ReturnID: res.ReturnID, TicketID: res.TicketID, FlightID: res.FlightID})
}

// Mine godoc
// @Summary      Mis tiquetes activos
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TicketListResponse
// @Router       /api/tickets/mine [get]
func (h *TicketHandler) Mine(c *fiber.Ctx) error {
	out, err := h.query.Mine(c.UserContext(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar tiquetes activos (caja)
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Param        ticket_id  query  string  false  "ID exacto"
// @Param        passport   query  string  false  "Pasaporte (subcadena)"
// @Param        phone      query  string  false  "Teléfono del dueño (subcadena)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Success      200  {object}  dto.TicketListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tickets/search [get]
func (h *TicketHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchTicketsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.query.Search(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo del tiquete
// @Description  JSON por defecto; con format=pdf devuelve el PDF imprimible.
// @Tags         tickets
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        id      path   string  true   "ID del tiquete"
// @Param        format  query  string  false  "json | pdf"
// @Success      200  {object}  dto.TicketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/receipt [get]
func (h *TicketHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if c.Query("format") == "pdf" {
		pdf, name, err := h.query.ReceiptPDF(c.UserContext(), GetActor(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return sendPDF(c, pdf, name)
	}
	out, err := h.query.Receipt(c.UserContext(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func sendPDF(c *fiber.Ctx, pdf []byte, name string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}
