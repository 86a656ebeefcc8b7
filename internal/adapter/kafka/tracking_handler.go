package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

// TrackingHandler turns carrier "delivered" events into order
// fulfillment. Other shipment statuses are informational and skipped.
type TrackingHandler struct {
	orders *usecase.Orders
	log    *slog.Logger
}

func NewTrackingHandler(orders *usecase.Orders) *TrackingHandler {
	return &TrackingHandler{orders: orders, log: logging.New("tracking-handler")}
}

func (h *TrackingHandler) Handle(ctx context.Context, ev TrackingMsg) error {
	if ev.Status != "delivered" {
		return nil
	}

	_, err := h.orders.Fulfill(ctx, ev.OrderID, ev.Tracking)

	// An unpaid or canceled order cannot be fulfilled from the feed;
	// retrying the same event will not change that, so drop it.
	var ite *domain.IllegalTransitionError
	if errors.As(err, &ite) {
		h.log.Warn("tracking event skipped", "order_id", ev.OrderID, "error", err)
		return nil
	}
	if errors.Is(err, usecase.ErrOrderNotFound) {
		h.log.Warn("tracking event for unknown order", "order_id", ev.OrderID)
		return nil
	}
	return err
}
