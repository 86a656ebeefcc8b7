package queue

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPaidMsg struct {
	OrderID string `json:"orderId"`
}

func TestJSONHandlerDecodesAndDispatches(t *testing.T) {
	var got orderPaidMsg
	h := JSONHandler[orderPaidMsg]{HandleFunc: func(_ context.Context, msg orderPaidMsg) error {
		got = msg
		return nil
	}}

	err := h.Handle(context.Background(), amqp.Delivery{Body: []byte(`{"orderId":"ord-1"}`)})

	require.NoError(t, err)
	assert.Equal(t, "ord-1", got.OrderID)
}

func TestJSONHandlerMarksMalformedBody(t *testing.T) {
	h := JSONHandler[orderPaidMsg]{HandleFunc: func(context.Context, orderPaidMsg) error {
		t.Fatal("handler must not run for an undecodable body")
		return nil
	}}

	err := h.Handle(context.Background(), amqp.Delivery{Body: []byte(`{"orderId":`)})

	// the router drops ErrBadPayload instead of requeueing, so a poison
	// message cannot loop through redelivery forever
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestJSONHandlerKeepsHandlerErrorsRetryable(t *testing.T) {
	transient := errors.New("db gone")
	h := JSONHandler[orderPaidMsg]{HandleFunc: func(context.Context, orderPaidMsg) error {
		return transient
	}}

	err := h.Handle(context.Background(), amqp.Delivery{Body: []byte(`{"orderId":"ord-1"}`)})

	require.ErrorIs(t, err, transient)
	assert.NotErrorIs(t, err, ErrBadPayload)
}
