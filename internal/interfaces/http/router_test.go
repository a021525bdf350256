package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Tiquetes-api/internal/interfaces/http"
)

// ── Fakes de los casos de uso ────────────────────────────────────────────────

type fakeAuth struct{}

func (fakeAuth) RegisterClient(_ context.Context, in dto.RegisterClientRequest) (*dto.LoginResponse, error) {
	if in.Phone == "+79990000000" {
		return nil, domain.ErrConflict
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{ID: "u1", Phone: in.Phone, Role: entity.RoleClient}}, nil
}

func (fakeAuth) RegisterCashier(_ context.Context, _ entity.Actor, in dto.RegisterCashierRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "c1", Phone: in.Phone, Role: entity.RoleCashier, OrganizationNumber: in.OrganizationNumber}, nil
}

func (fakeAuth) Login(context.Context, dto.LoginRequest) (*dto.LoginResponse, error) {
	return nil, domain.ErrUnauthorized
}

func (fakeAuth) Me(_ context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, nil
}

type fakeFlightsSvc struct{}

func (fakeFlightsSvc) Search(context.Context, entity.Actor, dto.SearchFlightsQuery) (*dto.FlightListResponse, error) {
	return &dto.FlightListResponse{Items: []dto.FlightResponse{}}, nil
}

func (fakeFlightsSvc) Create(context.Context, entity.Actor, dto.CreateFlightRequest) (*dto.FlightResponse, error) {
	return nil, domain.NewValidationError("price", "el precio debe ser un entero positivo")
}

func (fakeFlightsSvc) Update(context.Context, entity.Actor, string, dto.UpdateFlightRequest) (*dto.FlightResponse, error) {
	return nil, domain.ErrFlightNotFound
}

func (fakeFlightsSvc) Delete(context.Context, entity.Actor, string) error {
	return domain.ErrConflict
}

type fakePurchase struct {
	mu     sync.Mutex
	calls  int
	actor  entity.Actor
	result error
}

func (f *fakePurchase) Purchase(_ context.Context, actor entity.Actor, _ booking.PurchaseInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.actor = actor
	if f.result != nil {
		return "", f.result
	}
	return "ticket-1", nil
}

func (f *fakePurchase) SellByPhone(ctx context.Context, actor entity.Actor, in booking.SellByPhoneInput) (string, error) {
	return f.Purchase(ctx, actor, booking.PurchaseInput{FlightID: in.FlightID})
}

type fakeReturn struct{ last booking.ReturnInput }

func (f *fakeReturn) Return(_ context.Context, _ entity.Actor, in booking.ReturnInput) (*booking.ReturnResult, error) {
	f.last = in
	if in.TicketID == "devuelto" {
		return nil, domain.TransactionFailed(domain.ErrTicketNotActive)
	}
	return &booking.ReturnResult{ReturnID: "r1", TicketID: in.TicketID, FlightID: "f1"}, nil
}

type fakeTicketQuery struct{}

func (fakeTicketQuery) Mine(context.Context, entity.Actor) (*dto.TicketListResponse, error) {
	return &dto.TicketListResponse{Items: []dto.TicketResponse{}}, nil
}

func (fakeTicketQuery) Search(context.Context, entity.Actor, dto.SearchTicketsQuery) (*dto.TicketListResponse, error) {
	return &dto.TicketListResponse{Items: []dto.TicketResponse{}}, nil
}

func (fakeTicketQuery) Receipt(_ context.Context, _ entity.Actor, id string) (*dto.TicketResponse, error) {
	return &dto.TicketResponse{ID: id}, nil
}

func (fakeTicketQuery) ReceiptPDF(_ context.Context, _ entity.Actor, id string) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "recibo-" + id + ".pdf", nil
}

type fakeReports struct{}

func (fakeReports) DailyReport(_ context.Context, actor entity.Actor, cashierID, date string) (*dto.DailyReportResponse, error) {
	if cashierID == "" {
		cashierID = actor.ID
	}
	return &dto.DailyReportResponse{CashierID: cashierID, Date: date}, nil
}

func (fakeReports) DailyReportPDF(context.Context, entity.Actor, string, string) ([]byte, string, error) {
	return nil, "", domain.NewStorageError("report", io.ErrUnexpectedEOF)
}

func (fakeReports) Stats(context.Context, entity.Actor) (*dto.AdminStatsResponse, error) {
	return &dto.AdminStatsResponse{Flights: 3}, nil
}

// memIdempotency store en memoria con la misma semántica que el de Redis.
type memIdempotency struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = nil
	return true, nil
}

func (m *memIdempotency) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (m *memIdempotency) Save(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type testAPI struct {
	app      *fiber.App
	purchase *fakePurchase
	ret      *fakeReturn
}

func newTestAPI() *testAPI {
	purchase := &fakePurchase{}
	ret := &fakeReturn{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         fakeAuth{},
		FlightUC:       fakeFlightsSvc{},
		PurchaseUC:     purchase,
		ReturnUC:       ret,
		TicketQueryUC:  fakeTicketQuery{},
		DailyReportUC:  fakeReports{},
		AdminStatsUC:   fakeReports{},
		Idempotency:    &memIdempotency{data: map[string][]byte{}},
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
	})
	return &testAPI{app: app, purchase: purchase, ret: ret}
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any, headers ...string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterClientRequest{Phone: "+79991112233", Password: "clave1234"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterClientRequest{Phone: "+79990000000", Password: "clave1234"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterClientRequest{Phone: "+79991112233", Password: "corta"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Phone: "+7", Password: "x"})
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)

	resp = api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = api.do(t, http.MethodGet, "/api/auth/me", entity.RoleClient, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRoutes_RegistroDeCajeroSoloAdmin(t *testing.T) {
	api := newTestAPI()
	in := dto.RegisterCashierRequest{Phone: "+79990000009", Password: "clave1234", OrganizationNumber: "12345"}

	resp := api.do(t, http.MethodPost, "/api/auth/register/cashier", "", in)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = api.do(t, http.MethodPost, "/api/auth/register/cashier", entity.RoleCashier, in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/register/cashier", entity.RoleAdmin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, entity.RoleCashier, out.Role)
	assert.Equal(t, "12345", out.OrganizationNumber)

	in.Password = "corta"
	resp = api.do(t, http.MethodPost, "/api/auth/register/cashier", entity.RoleAdmin, in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Vuelos: roles y mapeo de errores ─────────────────────────────────────────

func TestFlightRoutes_RolesYErrores(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodGet, "/api/flights?departure_city=Mos", entity.RoleClient, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/flights", entity.RoleClient, dto.CreateFlightRequest{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/flights", entity.RoleCashier, dto.CreateFlightRequest{})
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = api.do(t, http.MethodPut, "/api/flights/f9", entity.RoleCashier, dto.UpdateFlightRequest{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/flights/f9", entity.RoleAdmin, dto.UpdateFlightRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodDelete, "/api/flights/f9", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// ── Tiquetes ─────────────────────────────────────────────────────────────────

func TestPurchase_PasaElActorDelToken(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, dto.PurchaseTicketRequest{FlightID: "f1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.PurchaseTicketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ticket-1", out.TicketID)
	assert.Equal(t, entity.Actor{ID: testUserID, Role: entity.RoleClient}, api.purchase.actor)
}

func TestPurchase_AgotadoResponde409(t *testing.T) {
	api := newTestAPI()
	api.purchase.result = domain.TransactionFailed(domain.ErrSoldOut)

	resp := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, dto.PurchaseTicketRequest{FlightID: "f1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SOLD_OUT", decodeError(t, resp).Code)
}

func TestPurchase_ErrorDeAlmacenamientoNoFiltraDetalles(t *testing.T) {
	api := newTestAPI()
	api.purchase.result = domain.TransactionFailed(domain.NewStorageError("insert sale", io.ErrUnexpectedEOF))

	resp := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, dto.PurchaseTicketRequest{FlightID: "f1"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "insert sale")
}

func TestPurchase_IdempotencyKeyReproduceLaRespuesta(t *testing.T) {
	api := newTestAPI()
	in := dto.PurchaseTicketRequest{FlightID: "f1"}

	first := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, in, apphttp.HeaderIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	second := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, in, apphttp.HeaderIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get("X-Idempotency-Replayed"))

	var out dto.PurchaseTicketResponse
	require.NoError(t, json.NewDecoder(second.Body).Decode(&out))
	assert.Equal(t, "ticket-1", out.TicketID)
	assert.Equal(t, 1, api.purchase.calls, "el reintento no debe vender otra vez")

	api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, in, apphttp.HeaderIdempotencyKey, "otra")
	assert.Equal(t, 2, api.purchase.calls)
}

func TestPurchase_FalloInternoLiberaLaClave(t *testing.T) {
	api := newTestAPI()
	api.purchase.result = domain.NewStorageError("begin", io.ErrUnexpectedEOF)
	in := dto.PurchaseTicketRequest{FlightID: "f1"}

	resp := api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, in, apphttp.HeaderIdempotencyKey, "k")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	api.purchase.result = nil
	resp = api.do(t, http.MethodPost, "/api/tickets/purchase", entity.RoleClient, in, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, api.purchase.calls)
}

func TestSell_SoloCajero(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodPost, "/api/tickets/sell", entity.RoleClient, dto.SellTicketRequest{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/tickets/sell", entity.RoleCashier, dto.SellTicketRequest{FlightID: "f1"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReturn_CuerpoOpcionalYDobleDevolucion(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodPost, "/api/tickets/t1/return", entity.RoleClient, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "t1", api.ret.last.TicketID)

	resp = api.do(t, http.MethodPost, "/api/tickets/t1/return", entity.RoleCashier,
		dto.ReturnTicketRequest{Reason: entity.ReturnReasonFlightCancelled})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ReturnReasonFlightCancelled, api.ret.last.Reason)

	resp = api.do(t, http.MethodPost, "/api/tickets/devuelto/return", entity.RoleClient, nil)
	assert.Equal(t, "TICKET_NOT_ACTIVE", decodeError(t, resp).Code)
}

func TestTicketQueries_Roles(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/tickets/mine", entity.RoleClient, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/api/tickets/mine", entity.RoleCashier, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/api/tickets/search?phone=999", entity.RoleClient, nil).StatusCode)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/tickets/search?phone=999", entity.RoleAdmin, nil).StatusCode)
}

func TestReceipt_PDF(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodGet, "/api/tickets/t1/receipt?format=pdf", entity.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo-t1.pdf")

	resp = api.do(t, http.MethodGet, "/api/tickets/t1/receipt", entity.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.TicketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "t1", out.ID)
}

// ── Reportes ─────────────────────────────────────────────────────────────────

func TestDailyReport(t *testing.T) {
	api := newTestAPI()

	resp := api.do(t, http.MethodGet, "/api/reports/daily?date=2026-10-15", entity.RoleCashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.DailyReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, testUserID, out.CashierID)
	assert.Equal(t, "2026-10-15", out.Date)

	resp = api.do(t, http.MethodGet, "/api/reports/daily?cashier_id=nope", entity.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/reports/daily", entity.RoleClient, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/reports/daily?format=pdf", entity.RoleCashier, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAdminStats_SoloAdmin(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/api/admin/stats", entity.RoleCashier, nil).StatusCode)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/admin/stats", entity.RoleAdmin, nil).StatusCode)
}
