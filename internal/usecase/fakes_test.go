package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
)

// memOrderRepo keeps aggregates by value so a caller mutating the copy it
// read cannot bypass the compare-and-set.
type memOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]domain.Order
	failCreate error
	failToken  error
	casDenied  bool
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]domain.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := o
	return &cp, nil
}

func (r *memOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrderRepo) SavePaymentToken(_ context.Context, id, token string) error {
	if r.failToken != nil {
		return r.failToken
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.PaymentToken = token
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) UpdateStatusIf(_ context.Context, o *domain.Order, from domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.orders[o.ID]
	if !ok {
		return false, errors.New("order not found")
	}
	if r.casDenied || cur.Status != from {
		return false, nil
	}
	r.orders[o.ID] = *o
	return true, nil
}

func (r *memOrderRepo) ForceStatus(_ context.Context, id string, to domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = to
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) stored(id string) domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

type stubEstimator struct {
	res   pricing.Result
	err   error
	calls int
}

func (s *stubEstimator) Estimate(context.Context, []pricing.Line, pricing.ShippingMethod) (pricing.Result, error) {
	s.calls++
	if s.err != nil {
		return pricing.Result{}, s.err
	}
	return s.res, nil
}

type stubGateway struct {
	token       string
	err         error
	gotOrderID  string
	gotMinor    int64
	intentCalls int
}

func (g *stubGateway) CreatePaymentIntent(_ context.Context, orderID string, amountMinorUnits int64) (string, error) {
	g.intentCalls++
	g.gotOrderID = orderID
	g.gotMinor = amountMinorUnits
	if g.err != nil {
		return "", g.err
	}
	return g.token, nil
}

func (g *stubGateway) VerifyWebhook(context.Context, string, string) (string, error) {
	return "pay_test", nil
}

type memIdem struct {
	mu          sync.Mutex
	locked      map[string]bool
	values      map[string]string
	deny        bool
	recallErr   error
	rememberErr error
}

func newMemIdem() *memIdem {
	return &memIdem{locked: make(map[string]bool), values: make(map[string]string)}
}

func (s *memIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + "/" + key
	if s.deny || s.locked[k] {
		return false, nil
	}
	s.locked[k] = true
	return true, nil
}

func (s *memIdem) Remember(_ context.Context, scope, key, value string) error {
	if s.rememberErr != nil {
		return s.rememberErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scope+"/"+key] = value
	return nil
}

func (s *memIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	if s.recallErr != nil {
		return "", false, s.recallErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[scope+"/"+key]
	return v, ok, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []domain.OrderPaid
	err    error
}

func (b *recordingBus) PublishOrderPaid(_ context.Context, ev domain.OrderPaid) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) published() []domain.OrderPaid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.OrderPaid(nil), b.events...)
}
