package http_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Tiquetes-api/internal/interfaces/http"
)

// lateIdempotency el primer Get no ve la respuesta: la original se guarda justo después.
type lateIdempotency struct {
	*memIdempotency
	missedGets int
}

func (l *lateIdempotency) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if l.missedGets > 0 {
		l.missedGets--
		return nil, false, nil
	}
	return l.memIdempotency.Get(ctx, key)
}

func idempotentApp(store apphttp.IdempotencyStore, calls *int) *fiber.App {
	app := fiber.New()
	app.Post("/compra", apphttp.Idempotency(store, time.Hour), func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ticket_id": "nuevo"})
	})
	return app
}

const compraKey = "idempotency::/compra:k1"

func TestIdempotency_ReintentoTardioRecibeLaRespuestaGuardada(t *testing.T) {
	store := &lateIdempotency{
		memIdempotency: &memIdempotency{data: map[string][]byte{
			compraKey: []byte(`{"status":201,"body":{"ticket_id":"original"}}`),
		}},
		missedGets: 1,
	}
	calls := 0
	app := idempotentApp(store, &calls)

	req := httptest.NewRequest(fiber.MethodPost, "/compra", nil)
	req.Header.Set(apphttp.HeaderIdempotencyKey, "k1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Idempotency-Replayed"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ticket_id":"original"}`, string(body))
	assert.Zero(t, calls)
}

func TestIdempotency_PeticionEnCursoResponde409(t *testing.T) {
	store := &memIdempotency{data: map[string][]byte{compraKey: nil}}
	calls := 0
	app := idempotentApp(store, &calls)

	req := httptest.NewRequest(fiber.MethodPost, "/compra", nil)
	req.Header.Set(apphttp.HeaderIdempotencyKey, "k1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Zero(t, calls)
}
