package booking_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiquetes-api/internal/application/booking"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
)

// ── Almacén en memoria con semántica transaccional ───────────────────────────
// RunBooking trabaja sobre una copia del estado y solo la publica si fn retorna nil.
// El mutex se mantiene durante toda la tx: serializa como lo haría el lock de fila.

type memState struct {
	flights map[string]entity.Flight
	tickets map[string]entity.Ticket
	sales   map[string]entity.Sale
	returns map[string]entity.TicketReturn
}

func (s memState) clone() memState {
	c := memState{
		flights: make(map[string]entity.Flight, len(s.flights)),
		tickets: make(map[string]entity.Ticket, len(s.tickets)),
		sales:   make(map[string]entity.Sale, len(s.sales)),
		returns: make(map[string]entity.TicketReturn, len(s.returns)),
	}
	for k, v := range s.flights {
		c.flights[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.returns {
		c.returns[k] = v
	}
	return c
}

var errForced = errors.New("fallo forzado de almacenamiento")

type memStore struct {
	mu    sync.Mutex
	state memState

	// failSaleCreate hace fallar la inserción de la venta (después de reservar silla y crear tiquete).
	failSaleCreate bool
	// failReturnCreate hace fallar la inserción de la devolución.
	failReturnCreate bool

	txs int
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		flights: map[string]entity.Flight{},
		tickets: map[string]entity.Ticket{},
		sales:   map[string]entity.Sale{},
		returns: map[string]entity.TicketReturn{},
	}}
}

func (s *memStore) addFlight(f entity.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.flights[f.ID] = f
}

func (s *memStore) flight(id string) entity.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.flights[id]
}

func (s *memStore) setPrice(id string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.state.flights[id]
	f.Price = price
	s.state.flights[id] = f
}

func (s *memStore) ticket(id string) (entity.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.tickets[id]
	return t, ok
}

func (s *memStore) saleFor(ticketID string) (entity.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.state.sales {
		if v.TicketID == ticketID {
			return v, true
		}
	}
	return entity.Sale{}, false
}

func (s *memStore) counts() (tickets, sales, returns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.tickets), len(s.state.sales), len(s.state.returns)
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs
}

func (s *memStore) returnsFor(ticketID string) []entity.TicketReturn {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.TicketReturn
	for _, v := range s.state.returns {
		if v.TicketID == ticketID {
			out = append(out, v)
		}
	}
	return out
}

func (s *memStore) RunBooking(ctx context.Context, fn func(
	flightRepo repository.FlightRepository,
	ticketRepo repository.TicketRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs++
	work := s.state.clone()
	err := fn(
		&memFlightRepo{st: &work},
		&memTicketRepo{st: &work},
		&memSaleRepo{st: &work, fail: s.failSaleCreate},
		&memReturnRepo{st: &work, fail: s.failReturnCreate},
	)
	if err != nil {
		return err
	}
	s.state = work
	return nil
}

var _ booking.BookingTxRunner = (*memStore)(nil)

// ── Repositorios atados a la copia de la tx ──────────────────────────────────

type memFlightRepo struct{ st *memState }

func (r *memFlightRepo) GetByID(_ context.Context, id string) (*entity.Flight, error) {
	f, ok := r.st.flights[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *memFlightRepo) Search(_ context.Context, _ repository.FlightFilter) ([]*entity.Flight, error) {
	out := make([]*entity.Flight, 0, len(r.st.flights))
	for _, f := range r.st.flights {
		f := f
		out = append(out, &f)
	}
	return out, nil
}

func (r *memFlightRepo) Create(_ context.Context, f *entity.Flight) error {
	r.st.flights[f.ID] = *f
	return nil
}

func (r *memFlightRepo) GetForUpdate(ctx context.Context, id string) (*entity.Flight, error) {
	return r.GetByID(ctx, id)
}

func (r *memFlightRepo) Update(_ context.Context, id string, p repository.FlightPatch) (*entity.Flight, error) {
	f, ok := r.st.flights[id]
	if !ok {
		return nil, nil
	}
	p.Apply(&f)
	r.st.flights[id] = f
	return &f, nil
}

func (r *memFlightRepo) Delete(_ context.Context, id string) error {
	delete(r.st.flights, id)
	return nil
}

func (r *memFlightRepo) CountActiveTickets(_ context.Context, flightID string) (int, error) {
	n := 0
	for _, t := range r.st.tickets {
		if t.FlightID == flightID && t.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *memFlightRepo) DecrementSeat(_ context.Context, id string) (bool, error) {
	f, ok := r.st.flights[id]
	if !ok || !f.IsActive() || f.SeatsAvailable <= 0 {
		return false, nil
	}
	f.SeatsAvailable--
	r.st.flights[id] = f
	return true, nil
}

func (r *memFlightRepo) IncrementSeat(_ context.Context, id string) (bool, error) {
	f, ok := r.st.flights[id]
	if !ok {
		return false, nil
	}
	f.SeatsAvailable++
	r.st.flights[id] = f
	return true, nil
}

type memTicketRepo struct{ st *memState }

func (r *memTicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	r.st.tickets[t.ID] = *t
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	t, ok := r.st.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *memTicketRepo) GetDetail(ctx context.Context, id string) (*entity.TicketDetail, error) {
	t, ok := r.st.tickets[id]
	if !ok {
		return nil, nil
	}
	return &entity.TicketDetail{Ticket: t}, nil
}

func (r *memTicketRepo) ListActiveByUser(_ context.Context, userID string) ([]*entity.TicketDetail, error) {
	var out []*entity.TicketDetail
	for _, t := range r.st.tickets {
		if t.UserID == userID && t.IsActive() {
			out = append(out, &entity.TicketDetail{Ticket: t})
		}
	}
	return out, nil
}

func (r *memTicketRepo) FindActive(_ context.Context, f repository.TicketFilter) ([]*entity.TicketDetail, error) {
	var out []*entity.TicketDetail
	for _, t := range r.st.tickets {
		if !t.IsActive() {
			continue
		}
		if f.TicketID != "" && t.ID != f.TicketID {
			continue
		}
		if f.PassengerPassport != "" && !strings.Contains(t.PassengerPassport, f.PassengerPassport) {
			continue
		}
		out = append(out, &entity.TicketDetail{Ticket: t})
	}
	return out, nil
}

func (r *memTicketRepo) MarkReturned(_ context.Context, id string) (bool, error) {
	t, ok := r.st.tickets[id]
	if !ok || !t.IsActive() {
		return false, nil
	}
	t.Status = entity.TicketStatusReturned
	r.st.tickets[id] = t
	return true, nil
}

type memSaleRepo struct {
	st   *memState
	fail bool
}

func (r *memSaleRepo) Create(_ context.Context, s *entity.Sale) error {
	if r.fail {
		return errForced
	}
	r.st.sales[s.ID] = *s
	return nil
}

func (r *memSaleRepo) GetByTicketID(_ context.Context, ticketID string) (*entity.Sale, error) {
	for _, s := range r.st.sales {
		if s.TicketID == ticketID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

type memReturnRepo struct {
	st   *memState
	fail bool
}

func (r *memReturnRepo) Create(_ context.Context, ret *entity.TicketReturn) error {
	if r.fail {
		return errForced
	}
	r.st.returns[ret.ID] = *ret
	return nil
}

func (r *memReturnRepo) GetByTicketID(_ context.Context, ticketID string) (*entity.TicketReturn, error) {
	for _, v := range r.st.returns {
		if v.TicketID == ticketID {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func newMemUserRepo(users ...entity.User) *memUserRepo {
	r := &memUserRepo{users: map[string]entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phone == phone {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ── Ganchos y métricas ───────────────────────────────────────────────────────

type recordingNotifier struct {
	mu       sync.Mutex
	fail     bool
	block    chan struct{} // si no es nil, TicketIssued espera a que se cierre
	issued   []booking.TicketIssuedEvent
	payments []booking.PaymentCapturedEvent
	refunds  []booking.RefundIssuedEvent
}

func (n *recordingNotifier) TicketIssued(_ context.Context, ev booking.TicketIssuedEvent) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.issued = append(n.issued, ev)
	if n.fail {
		return errors.New("broker caído")
	}
	return nil
}

func (n *recordingNotifier) PaymentCaptured(_ context.Context, ev booking.PaymentCapturedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, ev)
	if n.fail {
		return errors.New("broker caído")
	}
	return nil
}

func (n *recordingNotifier) RefundIssued(_ context.Context, ev booking.RefundIssuedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refunds = append(n.refunds, ev)
	if n.fail {
		return errors.New("broker caído")
	}
	return nil
}

func (n *recordingNotifier) counts() (issued, payments, refunds int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.issued), len(n.payments), len(n.refunds)
}

type countingMetrics struct {
	mu       sync.Mutex
	sold     map[string]int
	returned map[string]int
	failed   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{sold: map[string]int{}, returned: map[string]int{}, failed: map[string]int{}}
}

func (m *countingMetrics) TicketSold(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sold[channel]++
}

func (m *countingMetrics) TicketReturned(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returned[channel]++
}

func (m *countingMetrics) OperationFailed(operation, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[operation+":"+reason]++
}

func (m *countingMetrics) failures(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[key]
}
