package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

// TrackingMsg is the carrier feed's shipment update shape.
type TrackingMsg struct {
	OrderID  string `json:"orderId"`
	Tracking string `json:"trackingNumber"`
	Status   string `json:"status"` // e.g. "in_transit", "delivered"
}

// HandlerFunc processes a decoded tracking event.
type HandlerFunc func(ctx context.Context, ev TrackingMsg) error

// Consumer consumes a topic with a single handler.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, log: logging.New("kafka-consumer")}
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			return err
		}
		// Consume returns on ctx cancellation or a rebalance.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	log    *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev TrackingMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.log.Error("tracking event decode failed", "error", err, "offset", msg.Offset)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			h.log.Error("tracking handler failed",
				"error", err, "key", string(msg.Key), "offset", msg.Offset)
			// not marked; retried on next poll
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
