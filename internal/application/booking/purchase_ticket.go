package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	dombooking "github.com/jhoicas/Tiquetes-api/internal/domain/booking"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
	"github.com/jhoicas/Tiquetes-api/pkg/logger"
)

// PurchaseTicketUseCase compra (autoservicio) o venta en caja de un tiquete.
// Reserva de silla, tiquete y venta se confirman como una sola unidad.
type PurchaseTicketUseCase struct {
	txRunner BookingTxRunner
	seats    SeatInventory
	userRepo repository.UserRepository
	hooks    hooks
	metrics  Metrics
	log      *logger.Logger
}

// NewPurchaseTicketUseCase construye el caso de uso. notifier y metrics pueden ser nil.
func NewPurchaseTicketUseCase(
	txRunner BookingTxRunner,
	seats SeatInventory,
	userRepo repository.UserRepository,
	notifier Notifier,
	metrics Metrics,
	log *logger.Logger,
) *PurchaseTicketUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("purchase")
	return &PurchaseTicketUseCase{
		txRunner: txRunner,
		seats:    seats,
		userRepo: userRepo,
		hooks:    newHooks(notifier, log),
		metrics:  metrics,
		log:      log,
	}
}

// PurchaseInput entrada para comprar o vender un tiquete.
// Para clientes BuyerUserID se ignora: siempre compran para sí mismos.
type PurchaseInput struct {
	FlightID          string
	BuyerUserID       string
	PassengerName     string
	PassengerPassport string
	PaymentMethod     string // cash (defecto) o card
}

// SellByPhoneInput venta en caja identificando al cliente por su teléfono.
type SellByPhoneInput struct {
	FlightID          string
	ClientPhone       string
	PassengerName     string
	PassengerPassport string
	PaymentMethod     string
}

// Purchase ejecuta la compra y devuelve el ID del tiquete nuevo.
//
// Pasos atómicos (TxRunner hace Commit o Rollback):
//  1. SeatInventory.ReserveSeat; si no hay sillas aborta sin efectos.
//  2. Inserta el tiquete en estado active.
//  3. Inserta la venta con el precio del vuelo en ese instante, atribuida al cajero
//     que vende o, en autoservicio, al dueño del vuelo.
//
// Cualquier fallo dentro del bloque se devuelve como *domain.TransactionFailedError
// con la causa original (errors.Is sigue alcanzando domain.ErrSoldOut, etc.).
func (uc *PurchaseTicketUseCase) Purchase(ctx context.Context, actor entity.Actor, in PurchaseInput) (string, error) {
	if !actor.Valid() {
		return "", domain.ErrUnauthorized
	}
	in, err := uc.normalize(actor, in)
	if err != nil {
		return "", err
	}

	// El comprador debe existir (lectura fuera de la tx)
	if actor.IsStaff() {
		buyer, err := uc.userRepo.GetByID(ctx, in.BuyerUserID)
		if err != nil {
			return "", err
		}
		if buyer == nil {
			return "", domain.ErrUserNotFound
		}
	}

	channel := ChannelCashier
	if actor.IsClient() {
		channel = ChannelSelfService
	}

	now := time.Now()
	ticket := &entity.Ticket{
		ID:                uuid.New().String(),
		UserID:            in.BuyerUserID,
		FlightID:          in.FlightID,
		PassengerName:     in.PassengerName,
		PassengerPassport: in.PassengerPassport,
		PurchaseDate:      now,
		Status:            entity.TicketStatusActive,
	}
	var sale *entity.Sale
	var flight *entity.Flight

	err = uc.txRunner.RunBooking(ctx, func(
		flightRepo repository.FlightRepository,
		ticketRepo repository.TicketRepository,
		saleRepo repository.SaleRepository,
		_ repository.ReturnRepository,
	) error {
		// ── 1. Reservar silla (UPDATE condicional) ───────────────────────────
		if err := uc.seats.ReserveSeat(ctx, flightRepo, in.FlightID); err != nil {
			return err
		}

		// La fila ya quedó bloqueada por el UPDATE: el precio leído es el de la venta.
		f, err := flightRepo.GetByID(ctx, in.FlightID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrFlightNotFound
		}
		flight = f

		// ── 2. Tiquete activo ────────────────────────────────────────────────
		if err := ticketRepo.Create(ctx, ticket); err != nil {
			return err
		}

		// ── 3. Venta con monto capturado ─────────────────────────────────────
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			TicketID:      ticket.ID,
			CashierID:     dombooking.AttributedCashier(actor, f),
			Amount:        f.Price,
			PaymentMethod: in.PaymentMethod,
			SaleDate:      now,
		}
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		uc.metrics.OperationFailed("purchase", failureReason(err))
		uc.logFailure(err, actor, in.FlightID)
		return "", domain.TransactionFailed(err)
	}

	uc.metrics.TicketSold(channel)
	uc.log.Info().
		Str("ticket_id", ticket.ID).
		Str("flight_id", flight.ID).
		Str("actor_id", actor.ID).
		Str("channel", channel).
		Str("amount", sale.Amount.String()).
		Msg("tiquete vendido")

	uc.hooks.fire(ctx, EventTicketIssued, func(ctx context.Context, n Notifier) error {
		return n.TicketIssued(ctx, TicketIssuedEvent{
			TicketID:      ticket.ID,
			FlightID:      flight.ID,
			FlightNumber:  flight.FlightNumber,
			UserID:        ticket.UserID,
			PassengerName: ticket.PassengerName,
			Channel:       channel,
			IssuedAt:      now,
		})
	})
	uc.hooks.fire(ctx, EventPaymentCaptured, func(ctx context.Context, n Notifier) error {
		return n.PaymentCaptured(ctx, PaymentCapturedEvent{
			SaleID:        sale.ID,
			TicketID:      ticket.ID,
			CashierID:     optional(sale.CashierID),
			Amount:        sale.Amount,
			PaymentMethod: sale.PaymentMethod,
			CapturedAt:    now,
		})
	})

	return ticket.ID, nil
}

// Drain espera a que terminen los ganchos de notificación pendientes. Se llama al apagar,
// antes de cerrar el productor de eventos.
func (uc *PurchaseTicketUseCase) Drain(ctx context.Context) error {
	return uc.hooks.drain(ctx)
}

// SellByPhone venta en caja: busca al cliente por teléfono y delega en Purchase.
func (uc *PurchaseTicketUseCase) SellByPhone(ctx context.Context, actor entity.Actor, in SellByPhoneInput) (string, error) {
	if !actor.Valid() {
		return "", domain.ErrUnauthorized
	}
	if !actor.IsStaff() {
		return "", domain.ErrForbidden
	}
	phone := strings.TrimSpace(in.ClientPhone)
	if phone == "" {
		return "", domain.NewValidationError("client_phone", "el teléfono del cliente es obligatorio")
	}
	client, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", domain.ErrUserNotFound
	}
	return uc.Purchase(ctx, actor, PurchaseInput{
		FlightID:          in.FlightID,
		BuyerUserID:       client.ID,
		PassengerName:     in.PassengerName,
		PassengerPassport: in.PassengerPassport,
		PaymentMethod:     in.PaymentMethod,
	})
}

func (uc *PurchaseTicketUseCase) normalize(actor entity.Actor, in PurchaseInput) (PurchaseInput, error) {
	in.FlightID = strings.TrimSpace(in.FlightID)
	in.PassengerName = strings.TrimSpace(in.PassengerName)
	in.PassengerPassport = strings.TrimSpace(in.PassengerPassport)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	if in.FlightID == "" {
		return in, domain.NewValidationError("flight_id", "el vuelo es obligatorio")
	}
	// Un ID que no es UUID no puede existir; consultarlo abortaría la tx en Postgres.
	if _, err := uuid.Parse(in.FlightID); err != nil {
		return in, domain.ErrFlightNotFound
	}
	if in.PassengerName == "" || in.PassengerPassport == "" {
		return in, domain.NewValidationError("passenger", "complete nombre y pasaporte del pasajero")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return in, domain.NewValidationError("payment_method", "medio de pago no soportado")
	}
	if actor.IsClient() {
		in.BuyerUserID = actor.ID
	} else if strings.TrimSpace(in.BuyerUserID) == "" {
		return in, domain.NewValidationError("buyer_user_id", "el cliente comprador es obligatorio")
	}
	return in, nil
}

func (uc *PurchaseTicketUseCase) logFailure(err error, actor entity.Actor, flightID string) {
	ev := uc.log.Warn()
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("flight_id", flightID).Str("actor_id", actor.ID).Msg("compra abortada, rollback")
}

// failureReason etiqueta corta para métricas.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrFlightInactive):
		return "flight_inactive"
	case errors.Is(err, domain.ErrTicketNotActive):
		return "ticket_not_active"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "storage"
	}
}
