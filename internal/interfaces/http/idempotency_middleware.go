package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
)

// HeaderIdempotencyKey cabecera con la que el cliente marca un reintento de la misma compra.
const HeaderIdempotencyKey = "Idempotency-Key"

// processingTTL vida del candado mientras la compra está en curso.
const processingTTL = 30 * time.Second

// IdempotencyStore almacenamiento de respuestas ya servidas (Redis en producción).
type IdempotencyStore interface {
	// Reserve toma el candado de la clave; false si ya existía.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Get devuelve la respuesta guardada; found=false si no hay nada o sigue en curso.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Idempotency evita ventas duplicadas por reintentos del cliente: la primera respuesta
// (no 5xx) de un POST con Idempotency-Key se guarda y los reintentos la reciben tal cual.
// Sin cabecera o con el store caído la petición sigue normal.
func Idempotency(store IdempotencyStore, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil || c.Method() != fiber.MethodPost {
			return c.Next()
		}
		header := c.Get(HeaderIdempotencyKey)
		if header == "" {
			return c.Next()
		}
		key := "idempotency:" + GetUserID(c) + ":" + c.Path() + ":" + header
		ctx := c.UserContext()

		// ── 1. ¿Ya respondida? ───────────────────────────────────────────────
		raw, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotencia no disponible")
			return c.Next()
		}
		if found {
			if ok, err := replay(c, raw); ok {
				return err
			}
		}

		// ── 2. Candado (en curso) ────────────────────────────────────────────
		acquired, err := store.Reserve(ctx, key, processingTTL)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotencia no disponible")
			return c.Next()
		}
		if !acquired {
			// La original pudo terminar entre el Get y el Reserve.
			if raw, found, err := store.Get(ctx, key); err == nil && found {
				if ok, err := replay(c, raw); ok {
					return err
				}
			}
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "REQUEST_IN_PROGRESS",
				Message: "ya hay una petición en curso con esta Idempotency-Key",
			})
		}

		// ── 3. Procesar y guardar ────────────────────────────────────────────
		if err := c.Next(); err != nil {
			_ = store.Release(context.WithoutCancel(ctx), key)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			_ = store.Release(context.WithoutCancel(ctx), key)
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		value, err := json.Marshal(storedResponse{Status: status, Body: body})
		if err == nil {
			err = store.Save(context.WithoutCancel(ctx), key, value, ttl)
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

// replay responde con la respuesta guardada; ok=false si no se pudo decodificar.
func replay(c *fiber.Ctx, raw []byte) (ok bool, err error) {
	var prev storedResponse
	if json.Unmarshal(raw, &prev) != nil {
		return false, nil
	}
	c.Set("X-Idempotency-Replayed", "true")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return true, c.Status(prev.Status).Send(prev.Body)
}
