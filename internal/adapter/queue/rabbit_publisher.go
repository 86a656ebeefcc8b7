package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

const (
	exchangeName = "order.events"
	routingKey   = "order.paid"
)

// RabbitPublisher implements usecase.EventPublisher over a durable topic
// exchange. Callers commit the PAID transition before publishing; this
// type only guarantees the message leaves durably or the error is
// reported after bounded retries.
type RabbitPublisher struct {
	ch        *amqp.Channel
	queueName string
	attempts  int
	backoff   time.Duration
	log       *slog.Logger
}

var _ usecase.EventPublisher = (*RabbitPublisher)(nil)

// NewRabbitPublisher sets up the exchange, queue, and binding once at startup.
// The queue is durable: the broker must not lose OrderPaid messages,
// duplicates are the consumer's problem.
func NewRabbitPublisher(ch *amqp.Channel, queueName string) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	// publisher confirms, so a returned nil really means broker-acked
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitPublisher{
		ch:        ch,
		queueName: q.Name,
		attempts:  3,
		backoff:   200 * time.Millisecond,
		log:       logging.New("rmq-publisher"),
	}, nil
}

// PublishOrderPaid writes one persistent OrderPaid message, retrying
// with exponential backoff before giving up. Failures are returned, not
// swallowed; the caller decides whether to log or re-drive.
func (p *RabbitPublisher) PublishOrderPaid(ctx context.Context, ev domain.OrderPaid) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order paid: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		MessageId:    ev.OrderID,
		Body:         body,
	}

	delay := p.backoff
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		conf, err := p.ch.PublishWithDeferredConfirmWithContext(
			ctx,
			exchangeName,
			routingKey,
			false, // mandatory
			false, // immediate
			pub,
		)
		if err == nil {
			acked, werr := conf.WaitContext(ctx)
			if werr == nil && acked {
				return nil
			}
			if werr != nil {
				err = werr
			} else {
				err = fmt.Errorf("broker nacked publish")
			}
		}
		lastErr = err
		p.log.Warn("order paid publish attempt failed",
			"order_id", ev.OrderID, "attempt", attempt, "error", err)

		if attempt == p.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return &usecase.UpstreamError{Op: "broker-publish", Err: ctx.Err()}
		case <-time.After(delay):
		}
		delay *= 2
	}
	return &usecase.UpstreamError{Op: "broker-publish", Err: lastErr}
}
