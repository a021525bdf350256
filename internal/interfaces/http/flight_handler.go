package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

type flightService interface {
	Search(ctx context.Context, actor entity.Actor, q dto.SearchFlightsQuery) (*dto.FlightListResponse, error)
	Create(ctx context.Context, actor entity.Actor, in dto.CreateFlightRequest) (*dto.FlightResponse, error)
	Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateFlightRequest) (*dto.FlightResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id string) error
}

// FlightHandler maneja las peticiones HTTP de vuelos (protegido).
type FlightHandler struct {
	uc flightService
}

// NewFlightHandler construye el handler.
func NewFlightHandler(uc flightService) *FlightHandler {
	return &FlightHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar vuelos
// @Description  Los filtros dependen del rol: el cliente solo ve vuelos activos con sillas.
// @Tags         flights
// @Security     Bearer
// @Produce      json
// @Param        departure_city  query  string  false  "Ciudad de salida (subcadena)"
// @Param        arrival_city    query  string  false  "Ciudad de llegada (subcadena)"
// @Param        date            query  string  false  "Fecha de salida YYYY-MM-DD"
// @Param        flight_number   query  string  false  "Número de vuelo (caja)"
// @Param        status          query  string  false  "Estado (admin)"
// @Param        limit           query  int     false  "Límite"  default(50)
// @Success      200  {object}  dto.FlightListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/flights [get]
func (h *FlightHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchFlightsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Search(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear vuelo
// @Tags         flights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFlightRequest  true  "Datos del vuelo"
// @Success      201   {object}  dto.FlightResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/flights [post]
func (h *FlightHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFlightRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar vuelo
// @Tags         flights
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del vuelo"
// @Param        body  body  dto.UpdateFlightRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.FlightResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/flights/{id} [put]
func (h *FlightHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFlightRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar vuelo
// @Description  Se rechaza con 409 si el vuelo tiene tiquetes activos.
// @Tags         flights
// @Security     Bearer
// @Param        id   path  string  true  "ID del vuelo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/flights/{id} [delete]
func (h *FlightHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
