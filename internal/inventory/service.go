// Package inventory consumes OrderPaid events and adjusts stock. The
// broker delivers at-least-once, so every handler call runs through a
// durable dedup ledger keyed by order identity: the first delivery
// performs the stock adjustment, every later one is an acked no-op.
package inventory

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

// ErrAlreadyProcessed means the ledger already holds a row for the order
// identity, i.e. the stock adjustment already ran.
var ErrAlreadyProcessed = errors.New("order already processed")

// ProcessedOrder is one dedup-ledger row. Rows are created once per
// order identity and never updated or deleted.
type ProcessedOrder struct {
	OrderID     string    `json:"orderId"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Ledger writes the dedup row and the stock effect as one atomic unit.
type Ledger interface {
	ApplyOrderPaid(ctx context.Context, orderID string) error
	ListProcessed(ctx context.Context) ([]ProcessedOrder, error)
}

var (
	ordersProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_orders_processed_total",
		Help: "OrderPaid events whose stock adjustment ran",
	})
	ordersDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_orders_duplicate_total",
		Help: "OrderPaid redeliveries discarded by the dedup ledger",
	})
)

type Service struct {
	ledger Ledger
	log    *slog.Logger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger, log: logging.New("inventory")}
}

// HandleOrderPaid is the queue handler body. Returning nil acks the
// delivery; duplicates are acked too, never surfaced as errors.
func (s *Service) HandleOrderPaid(ctx context.Context, ev domain.OrderPaid) error {
	err := s.ledger.ApplyOrderPaid(ctx, ev.OrderID)
	if errors.Is(err, ErrAlreadyProcessed) {
		ordersDuplicate.Inc()
		s.log.Info("duplicate order paid delivery discarded", "order_id", ev.OrderID)
		return nil
	}
	if err != nil {
		return err
	}
	ordersProcessed.Inc()
	s.log.Info("stock adjusted for order", "order_id", ev.OrderID)
	return nil
}

// ListProcessed exposes the ledger for the worker's debug endpoint.
func (s *Service) ListProcessed(ctx context.Context) ([]ProcessedOrder, error) {
	return s.ledger.ListProcessed(ctx)
}
