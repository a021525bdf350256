package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
)

// respondError traduce un error de dominio a status + dto.ErrorResponse.
// Los fallos de almacenamiento se registran y salen con un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", GetUserID(c)).
			Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrFlightNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "FLIGHT_NOT_FOUND", Message: "vuelo no encontrado"}
	case errors.Is(err, domain.ErrTicketNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "TICKET_NOT_FOUND", Message: "tiquete no encontrado"}
	case errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrSoldOut):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SOLD_OUT", Message: domain.ErrSoldOut.Error()}
	case errors.Is(err, domain.ErrFlightInactive):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "FLIGHT_INACTIVE", Message: domain.ErrFlightInactive.Error()}
	case errors.Is(err, domain.ErrTicketNotActive):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "TICKET_NOT_ACTIVE", Message: domain.ErrTicketNotActive.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: domain.ErrConflict.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
