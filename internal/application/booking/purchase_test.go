package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/application/inventory"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

const (
	flightID  = "5f0c8a4e-2d1b-4c3a-9e7f-6a1b2c3d4e5f"
	ownerID   = "cashier-owner"
	cashierID = "cashier-2"
	clientID  = "client-1"
	otherID   = "client-2"
)

var (
	client  = entity.Actor{ID: clientID, Role: entity.RoleClient}
	other   = entity.Actor{ID: otherID, Role: entity.RoleClient}
	cashier = entity.Actor{ID: cashierID, Role: entity.RoleCashier}
)

type fixture struct {
	store    *memStore
	users    *memUserRepo
	notifier *recordingNotifier
	metrics  *countingMetrics
	purchase *booking.PurchaseTicketUseCase
	ret      *booking.ReturnTicketUseCase
}

func newFixture(t *testing.T, seats int, price int64) *fixture {
	t.Helper()
	owner := ownerID
	store := newMemStore()
	store.addFlight(entity.Flight{
		ID:             flightID,
		FlightNumber:   "SU-100",
		DepartureCity:  "Moscú",
		ArrivalCity:    "Sochi",
		DepartureTime:  time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		ArrivalTime:    time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC),
		Price:          decimal.NewFromInt(price),
		Capacity:       seats,
		SeatsAvailable: seats,
		Airplane:       "A320",
		StaffID:        &owner,
		Status:         entity.FlightStatusActive,
	})
	users := newMemUserRepo(
		entity.User{ID: clientID, Phone: "+79990000001", Role: entity.RoleClient},
		entity.User{ID: otherID, Phone: "+79990000002", Role: entity.RoleClient},
		entity.User{ID: cashierID, Phone: "+79990000009", Role: entity.RoleCashier},
	)
	notifier := &recordingNotifier{}
	metrics := newCountingMetrics()
	seatsMgr := inventory.NewSeatManager()
	return &fixture{
		store:    store,
		users:    users,
		notifier: notifier,
		metrics:  metrics,
		purchase: booking.NewPurchaseTicketUseCase(store, seatsMgr, users, notifier, metrics, nil),
		ret:      booking.NewReturnTicketUseCase(store, seatsMgr, notifier, metrics, nil),
	}
}

func clientPurchase() booking.PurchaseInput {
	return booking.PurchaseInput{
		FlightID:          flightID,
		PassengerName:     "Ivan Petrov",
		PassengerPassport: "4510 123456",
	}
}

// ── Compra en autoservicio ───────────────────────────────────────────────────

func TestPurchase_ClienteCompraYDescuentaSilla(t *testing.T) {
	fx := newFixture(t, 10, 5000)

	ticketID, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)
	require.NotEmpty(t, ticketID)

	assert.Equal(t, 9, fx.store.flight(flightID).SeatsAvailable)

	tk, ok := fx.store.ticket(ticketID)
	require.True(t, ok)
	assert.Equal(t, entity.TicketStatusActive, tk.Status)
	assert.Equal(t, clientID, tk.UserID)

	sale, ok := fx.store.saleFor(ticketID)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.Amount))
	assert.Equal(t, entity.PaymentMethodCash, sale.PaymentMethod)
	// Autoservicio: la venta se atribuye al dueño del vuelo.
	require.NotNil(t, sale.CashierID)
	assert.Equal(t, ownerID, *sale.CashierID)
}

func TestPurchase_ClienteSiempreCompraParaSiMismo(t *testing.T) {
	fx := newFixture(t, 3, 1000)
	in := clientPurchase()
	in.BuyerUserID = otherID

	ticketID, err := fx.purchase.Purchase(context.Background(), client, in)
	require.NoError(t, err)

	tk, _ := fx.store.ticket(ticketID)
	assert.Equal(t, clientID, tk.UserID)
}

func TestPurchase_MontoNoCambiaSiLuegoSubeElPrecio(t *testing.T) {
	fx := newFixture(t, 3, 5000)

	ticketID, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)

	fx.store.setPrice(flightID, decimal.NewFromInt(7000))

	sale, ok := fx.store.saleFor(ticketID)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.Amount))
}

// ── Venta en caja ────────────────────────────────────────────────────────────

func TestPurchase_CajeroVendeAClienteYSeAtribuyeASiMismo(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	in := clientPurchase()
	in.BuyerUserID = clientID
	in.PaymentMethod = entity.PaymentMethodCard

	ticketID, err := fx.purchase.Purchase(context.Background(), cashier, in)
	require.NoError(t, err)

	tk, _ := fx.store.ticket(ticketID)
	assert.Equal(t, clientID, tk.UserID)

	sale, _ := fx.store.saleFor(ticketID)
	require.NotNil(t, sale.CashierID)
	assert.Equal(t, cashierID, *sale.CashierID)
	assert.Equal(t, entity.PaymentMethodCard, sale.PaymentMethod)
}

func TestSellByPhone_BuscaClientePorTelefono(t *testing.T) {
	fx := newFixture(t, 5, 1000)

	ticketID, err := fx.purchase.SellByPhone(context.Background(), cashier, booking.SellByPhoneInput{
		FlightID:          flightID,
		ClientPhone:       "+79990000002",
		PassengerName:     "Olga Ivanova",
		PassengerPassport: "4511 654321",
	})
	require.NoError(t, err)

	tk, _ := fx.store.ticket(ticketID)
	assert.Equal(t, otherID, tk.UserID)
}

func TestSellByPhone_TelefonoDesconocido(t *testing.T) {
	fx := newFixture(t, 5, 1000)

	_, err := fx.purchase.SellByPhone(context.Background(), cashier, booking.SellByPhoneInput{
		FlightID:          flightID,
		ClientPhone:       "+70000000000",
		PassengerName:     "X",
		PassengerPassport: "Y",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 5, fx.store.flight(flightID).SeatsAvailable)
}

func TestSellByPhone_ClienteNoPuedeVender(t *testing.T) {
	fx := newFixture(t, 5, 1000)

	_, err := fx.purchase.SellByPhone(context.Background(), client, booking.SellByPhoneInput{
		FlightID: flightID, ClientPhone: "+79990000002", PassengerName: "X", PassengerPassport: "Y",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPurchase_CajeroConCompradorInexistente(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	in := clientPurchase()
	in.BuyerUserID = "no-existe"

	_, err := fx.purchase.Purchase(context.Background(), cashier, in)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ── Validaciones ─────────────────────────────────────────────────────────────

func TestPurchase_Validaciones(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	ctx := context.Background()

	cases := []struct {
		name string
		in   booking.PurchaseInput
	}{
		{"sin vuelo", booking.PurchaseInput{PassengerName: "A", PassengerPassport: "B"}},
		{"sin nombre", booking.PurchaseInput{FlightID: flightID, PassengerPassport: "B"}},
		{"sin pasaporte", booking.PurchaseInput{FlightID: flightID, PassengerName: "A"}},
		{"medio de pago raro", booking.PurchaseInput{FlightID: flightID, PassengerName: "A", PassengerPassport: "B", PaymentMethod: "crypto"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.purchase.Purchase(ctx, client, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := fx.purchase.Purchase(ctx, entity.Actor{}, clientPurchase())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, 5, fx.store.flight(flightID).SeatsAvailable)
	tickets, sales, _ := fx.store.counts()
	assert.Zero(t, tickets)
	assert.Zero(t, sales)
}

// ── Fallos dentro de la transacción ──────────────────────────────────────────

func TestPurchase_VueloAgotado(t *testing.T) {
	fx := newFixture(t, 0, 1000)

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.Error(t, err)

	var txErr *domain.TransactionFailedError
	assert.True(t, errors.As(err, &txErr))
	assert.ErrorIs(t, err, domain.ErrSoldOut)
	assert.Equal(t, 0, fx.store.flight(flightID).SeatsAvailable)
	assert.Equal(t, 1, fx.metrics.failures("purchase:sold_out"))
}

func TestPurchase_VueloInactivo(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	f := fx.store.flight(flightID)
	f.Status = entity.FlightStatusCancelled
	fx.store.addFlight(f)

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	assert.ErrorIs(t, err, domain.ErrFlightInactive)
	assert.Equal(t, 5, fx.store.flight(flightID).SeatsAvailable)
}

func TestPurchase_VueloInexistente(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	in := clientPurchase()
	in.FlightID = "00000000-0000-0000-0000-0000000000ff"

	_, err := fx.purchase.Purchase(context.Background(), client, in)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchase_IDDeVueloMalFormadoNoAbreTransaccion(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	ctx := context.Background()
	in := clientPurchase()
	in.FlightID = "vuelo-123"

	_, err := fx.purchase.Purchase(ctx, client, in)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	var storageErr *domain.StorageError
	assert.False(t, errors.As(err, &storageErr))
	assert.Equal(t, 0, fx.store.transactions())

	_, err = fx.purchase.SellByPhone(ctx, cashier, booking.SellByPhoneInput{
		FlightID: "vuelo-123", ClientPhone: "+79990000001", PassengerName: "A", PassengerPassport: "B",
	})
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.Equal(t, 0, fx.store.transactions())
}

func TestPurchase_FalloAlGuardarVentaHaceRollbackCompleto(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	fx.store.failSaleCreate = true

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.Error(t, err)

	var txErr *domain.TransactionFailedError
	require.True(t, errors.As(err, &txErr))
	assert.ErrorIs(t, err, errForced)

	// Ni silla descontada, ni tiquete, ni venta.
	assert.Equal(t, 5, fx.store.flight(flightID).SeatsAvailable)
	tickets, sales, _ := fx.store.counts()
	assert.Zero(t, tickets)
	assert.Zero(t, sales)

	issued, payments, _ := fx.notifier.counts()
	assert.Zero(t, issued)
	assert.Zero(t, payments)
}

// ── Concurrencia ─────────────────────────────────────────────────────────────

func TestPurchase_UltimaSillaConcurrenteSoloUnoGana(t *testing.T) {
	fx := newFixture(t, 1, 1000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, actor := range []entity.Actor{client, other} {
		wg.Add(1)
		go func(i int, actor entity.Actor) {
			defer wg.Done()
			_, errs[i] = fx.purchase.Purchase(context.Background(), actor, clientPurchase())
		}(i, actor)
	}
	wg.Wait()

	okCount, soldOut := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrSoldOut):
			soldOut++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, soldOut)
	assert.Equal(t, 0, fx.store.flight(flightID).SeatsAvailable)

	tickets, sales, _ := fx.store.counts()
	assert.Equal(t, 1, tickets)
	assert.Equal(t, 1, sales)
}

func TestPurchase_MuchasComprasNuncaSobrevenden(t *testing.T) {
	fx := newFixture(t, 20, 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := fx.purchase.Purchase(context.Background(), client, clientPurchase()); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, ok)
	f := fx.store.flight(flightID)
	assert.Equal(t, 0, f.SeatsAvailable)
	tickets, _, _ := fx.store.counts()
	assert.Equal(t, f.Capacity-f.SeatsAvailable, tickets)
}

// ── Ganchos ──────────────────────────────────────────────────────────────────

func TestPurchase_EmiteGanchosDespuesDelCommit(t *testing.T) {
	fx := newFixture(t, 5, 1000)

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		issued, payments, _ := fx.notifier.counts()
		return issued == 1 && payments == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPurchase_FalloDelGanchoNoRevierteLaVenta(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	fx.notifier.fail = true

	ticketID, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		issued, _, _ := fx.notifier.counts()
		return issued == 1
	}, time.Second, 10*time.Millisecond)

	tk, ok := fx.store.ticket(ticketID)
	require.True(t, ok)
	assert.Equal(t, entity.TicketStatusActive, tk.Status)
	assert.Equal(t, 4, fx.store.flight(flightID).SeatsAvailable)
}

func TestPurchase_ContextoCanceladoNoCancelaGanchos(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := fx.purchase.Purchase(ctx, client, clientPurchase())
	require.NoError(t, err)
	cancel()

	assert.Eventually(t, func() bool {
		_, payments, _ := fx.notifier.counts()
		return payments == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPurchase_DrainEsperaLosGanchos(t *testing.T) {
	fx := newFixture(t, 5, 1000)

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)

	require.NoError(t, fx.purchase.Drain(context.Background()))
	issued, payments, _ := fx.notifier.counts()
	assert.Equal(t, 1, issued)
	assert.Equal(t, 1, payments)
}

func TestPurchase_DrainRespetaElPlazo(t *testing.T) {
	fx := newFixture(t, 5, 1000)
	fx.notifier.block = make(chan struct{})
	defer close(fx.notifier.block)

	_, err := fx.purchase.Purchase(context.Background(), client, clientPurchase())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, fx.purchase.Drain(ctx), context.DeadlineExceeded)
}
