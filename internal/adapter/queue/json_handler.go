package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrBadPayload marks a delivery whose body cannot be decoded. Redelivery
// cannot fix a malformed body, so the Router drops these instead of
// requeueing them.
var ErrBadPayload = errors.New("malformed message payload")

// JSONHandler adapts a typed function into a raw Delivery handler.
// It unmarshals d.Body into T and calls HandleFunc(ctx, T).
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return h.HandleFunc(ctx, v)
}
