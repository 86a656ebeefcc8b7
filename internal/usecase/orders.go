package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

var paidPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_paid_publish_failures_total",
	Help: "OrderPaid publications that failed after retries; each needs a manual re-drive",
})

// Orders drives the order lifecycle and the read-side listing. Lifecycle
// writes go through the aggregate's transition methods and a
// compare-and-set persist, so two concurrent calls on the same order
// cannot silently overwrite each other.
type Orders struct {
	repo OrderRepo
	bus  EventPublisher
	log  *slog.Logger
}

func NewOrders(repo OrderRepo, bus EventPublisher) *Orders {
	return &Orders{repo: repo, bus: bus, log: logging.New("orders")}
}

// MarkPaid records the payment reference and publishes OrderPaid once the
// new status is durably committed. Replayed webhook deliveries land on
// the PAID no-op cell: the first reference wins and the event is
// published again, which downstream dedup absorbs.
func (s *Orders) MarkPaid(ctx context.Context, id, ref string) (*domain.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.Pay(ref); err != nil {
		return nil, err
	}
	if o.Status != from {
		ok, err := s.repo.UpdateStatusIf(ctx, o, from)
		if err != nil {
			return nil, fmt.Errorf("persist pay transition: %w", err)
		}
		if !ok {
			return nil, ErrConflict
		}
	}
	s.publishPaid(ctx, o.ID)
	return o, nil
}

// Fulfill records the tracking number for a PAID order.
func (s *Orders) Fulfill(ctx context.Context, id, tracking string) (*domain.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.Fulfill(tracking); err != nil {
		return nil, err
	}
	if o.Status != from {
		ok, err := s.repo.UpdateStatusIf(ctx, o, from)
		if err != nil {
			return nil, fmt.Errorf("persist fulfill transition: %w", err)
		}
		if !ok {
			return nil, ErrConflict
		}
	}
	return o, nil
}

// Cancel records the cancellation reason on a CREATED or PAID order.
func (s *Orders) Cancel(ctx context.Context, id, reason string) (*domain.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.Cancel(reason); err != nil {
		return nil, err
	}
	if o.Status != from {
		ok, err := s.repo.UpdateStatusIf(ctx, o, from)
		if err != nil {
			return nil, fmt.Errorf("persist cancel transition: %w", err)
		}
		if !ok {
			return nil, ErrConflict
		}
	}
	return o, nil
}

// UpdateStatus is the admin-facing status sync. It maps the public
// vocabulary (processing/shipped/delivered/canceled) onto order states,
// writes the result unconditionally, and publishes OrderPaid on every
// call that lands on PAID, not just the first. Unrecognized values fall
// back to CREATED.
func (s *Orders) UpdateStatus(ctx context.Context, id, status string) (OrderView, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return OrderView{}, err
	}
	next := domain.ParseStatus(status)
	if err := s.repo.ForceStatus(ctx, id, next); err != nil {
		return OrderView{}, fmt.Errorf("force status: %w", err)
	}
	o.Status = next
	if next == domain.StatusPaid {
		s.publishPaid(ctx, o.ID)
	}
	return NewOrderView(o), nil
}

// ListGroupedByCustomer buckets all orders under their owning-customer
// key: explicit client key, else customer email, else "guest".
func (s *Orders) ListGroupedByCustomer(ctx context.Context) (map[string][]OrderView, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make(map[string][]OrderView)
	for _, o := range all {
		key := o.GroupKey()
		out[key] = append(out[key], NewOrderView(o))
	}
	return out, nil
}

func (s *Orders) get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// publishPaid runs after the state is committed. The publisher retries
// with backoff internally; a final failure is logged and counted, never
// rolled back into the payment state. Ops re-drives a dropped event by
// re-posting the order's "shipped" status.
func (s *Orders) publishPaid(ctx context.Context, orderID string) {
	if err := s.bus.PublishOrderPaid(ctx, domain.OrderPaid{OrderID: orderID}); err != nil {
		paidPublishFailures.Inc()
		s.log.Error("order paid publication failed", "order_id", orderID, "error", err)
	}
}
