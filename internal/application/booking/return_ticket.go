package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	dombooking "github.com/jhoicas/Tiquetes-api/internal/domain/booking"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
	"github.com/jhoicas/Tiquetes-api/pkg/logger"
)

// ReturnTicketUseCase devolución de un tiquete activo (cliente o caja).
type ReturnTicketUseCase struct {
	txRunner BookingTxRunner
	seats    SeatInventory
	hooks    hooks
	metrics  Metrics
	log      *logger.Logger
}

// NewReturnTicketUseCase construye el caso de uso. notifier y metrics pueden ser nil.
func NewReturnTicketUseCase(
	txRunner BookingTxRunner,
	seats SeatInventory,
	notifier Notifier,
	metrics Metrics,
	log *logger.Logger,
) *ReturnTicketUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("return")
	return &ReturnTicketUseCase{
		txRunner: txRunner,
		seats:    seats,
		hooks:    newHooks(notifier, log),
		metrics:  metrics,
		log:      log,
	}
}

// ReturnInput motivo y explicación solo aplican a devoluciones en caja.
type ReturnInput struct {
	TicketID    string
	Reason      string
	Explanation string
}

// ReturnResult lo que se confirmó al devolver.
type ReturnResult struct {
	ReturnID string
	TicketID string
	FlightID string
}

// Return marca el tiquete como devuelto, libera su silla y registra la devolución.
//
// Pasos atómicos:
//  1. Lee el tiquete; un cliente solo ve los suyos (ajeno = no encontrado).
//  2. UPDATE condicional active→returned; si no afecta filas: ErrTicketNotActive.
//  3. Libera la silla del vuelo.
//  4. Inserta el registro de devolución atribuido al cajero.
func (uc *ReturnTicketUseCase) Return(ctx context.Context, actor entity.Actor, in ReturnInput) (*ReturnResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	in.TicketID = strings.TrimSpace(in.TicketID)
	if in.TicketID == "" {
		return nil, domain.NewValidationError("ticket_id", "el tiquete es obligatorio")
	}
	if actor.IsClient() {
		// El autoservicio no registra motivo.
		in.Reason = ""
		in.Explanation = ""
	} else {
		in.Reason = strings.TrimSpace(in.Reason)
		in.Explanation = strings.TrimSpace(in.Explanation)
		if in.Reason == "" {
			in.Reason = entity.ReturnReasonPassengerRequest
		}
		if !entity.ValidReturnReason(in.Reason) {
			return nil, domain.NewValidationError("reason", "motivo de devolución no soportado")
		}
	}

	channel := ChannelCashier
	if actor.IsClient() {
		channel = ChannelSelfService
	}

	now := time.Now()
	var ret *entity.TicketReturn
	var ticket *entity.Ticket
	var flight *entity.Flight

	err := uc.txRunner.RunBooking(ctx, func(
		flightRepo repository.FlightRepository,
		ticketRepo repository.TicketRepository,
		_ repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		// ── 1. Tiquete y dueño ───────────────────────────────────────────────
		t, err := ticketRepo.GetByID(ctx, in.TicketID)
		if err != nil {
			return err
		}
		if t == nil || (actor.IsClient() && t.UserID != actor.ID) {
			return domain.ErrTicketNotFound
		}
		ticket = t

		// ── 2. Transición active → returned ──────────────────────────────────
		returned, err := ticketRepo.MarkReturned(ctx, t.ID)
		if err != nil {
			return err
		}
		if !returned {
			return domain.ErrTicketNotActive
		}

		// ── 3. Liberar silla ─────────────────────────────────────────────────
		if err := uc.seats.ReleaseSeat(ctx, flightRepo, t.FlightID); err != nil {
			return err
		}

		f, err := flightRepo.GetByID(ctx, t.FlightID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrFlightNotFound
		}
		flight = f

		// ── 4. Registro de devolución ────────────────────────────────────────
		ret = &entity.TicketReturn{
			ID:          uuid.New().String(),
			TicketID:    t.ID,
			CashierID:   dombooking.AttributedCashier(actor, f),
			Reason:      in.Reason,
			Explanation: in.Explanation,
			ReturnDate:  now,
		}
		return returnRepo.Create(ctx, ret)
	})
	if err != nil {
		uc.metrics.OperationFailed("return", failureReason(err))
		uc.log.Warn().Err(err).
			Str("ticket_id", in.TicketID).
			Str("actor_id", actor.ID).
			Msg("devolución abortada, rollback")
		return nil, domain.TransactionFailed(err)
	}

	uc.metrics.TicketReturned(channel)
	uc.log.Info().
		Str("ticket_id", ticket.ID).
		Str("flight_id", flight.ID).
		Str("actor_id", actor.ID).
		Str("channel", channel).
		Msg("tiquete devuelto")

	uc.hooks.fire(ctx, EventRefundIssued, func(ctx context.Context, n Notifier) error {
		return n.RefundIssued(ctx, RefundIssuedEvent{
			ReturnID:  ret.ID,
			TicketID:  ticket.ID,
			CashierID: optional(ret.CashierID),
			Amount:    flight.Price,
			Reason:    ret.Reason,
			Channel:   channel,
			IssuedAt:  now,
		})
	})

	return &ReturnResult{ReturnID: ret.ID, TicketID: ticket.ID, FlightID: flight.ID}, nil
}

// Drain espera a que terminen los reembolsos pendientes de notificar.
func (uc *ReturnTicketUseCase) Drain(ctx context.Context) error {
	return uc.hooks.drain(ctx)
}
