package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(OrderDraft{
		Customer:    Customer{Name: "Ana Pop", Email: "ana@example.com", Phone: "0712345678"},
		Address:     ShippingAddress{Line1: "Str. Florilor 1", City: "Cluj", County: "CJ", PostalCode: "400001"},
		Currency:    "RON",
		ShippingFee: decimal.NewFromInt(25),
		VATAmount:   decimal.RequireFromString("23.75"),
		TotalAmount: decimal.RequireFromString("148.75"),
		Items: []OrderItem{
			{BasketID: "b1", Title: "Spring Basket", UnitAmount: decimal.NewFromInt(100), Quantity: 1},
		},
	}, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, StatusCreated, o.Status)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "BK-1741608000000", o.OrderNumber)
	assert.Empty(t, o.PaymentRef)
	assert.Len(t, o.Items, 1)
}

func TestNewOrderRejectsEmptyItems(t *testing.T) {
	_, err := NewOrder(OrderDraft{Currency: "RON"}, time.Now())
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestNewOrderRejectsZeroQuantity(t *testing.T) {
	_, err := NewOrder(OrderDraft{
		Currency: "RON",
		Items:    []OrderItem{{BasketID: "b1", Quantity: 0}},
	}, time.Now())
	assert.Error(t, err)
}

func TestPayFromCreated(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.Pay("pay_1"))
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, "pay_1", o.PaymentRef)
}

func TestPayIsIdempotentAndKeepsFirstRef(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Pay("pay_1"))

	// replayed webhook with a different reference
	require.NoError(t, o.Pay("pay_2"))
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, "pay_1", o.PaymentRef)
}

func TestFulfillRequiresPayment(t *testing.T) {
	o := newTestOrder(t)

	err := o.Fulfill("TRK-1")
	var ite *IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, StatusCreated, ite.From)
	assert.Equal(t, "fulfill", ite.Action)
	assert.Equal(t, StatusCreated, o.Status)
	assert.Empty(t, o.TrackingNumber)
}

func TestFulfillFromPaid(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Pay("pay_1"))

	require.NoError(t, o.Fulfill("TRK-1"))
	assert.Equal(t, StatusFulfilled, o.Status)
	assert.Equal(t, "TRK-1", o.TrackingNumber)

	// self-transition no-ops, first tracking wins
	require.NoError(t, o.Fulfill("TRK-2"))
	require.NoError(t, o.Pay("pay_x"))
	assert.Equal(t, "TRK-1", o.TrackingNumber)
	assert.Equal(t, "pay_1", o.PaymentRef)
}

func TestCannotCancelFulfilled(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Pay("pay_1"))
	require.NoError(t, o.Fulfill("TRK-1"))

	err := o.Cancel("changed my mind")
	var ite *IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, StatusFulfilled, ite.From)
	assert.Empty(t, o.CancelReason)
}

func TestCancelFromCreatedAndPaid(t *testing.T) {
	created := newTestOrder(t)
	require.NoError(t, created.Cancel("out of stock"))
	assert.Equal(t, StatusCanceled, created.Status)
	assert.Equal(t, "out of stock", created.CancelReason)

	paid := newTestOrder(t)
	require.NoError(t, paid.Pay("pay_1"))
	require.NoError(t, paid.Cancel("refund requested"))
	assert.Equal(t, StatusCanceled, paid.Status)
}

func TestCanceledIsTerminal(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Cancel("user_request"))

	var ite *IllegalTransitionError
	require.ErrorAs(t, o.Pay("pay_1"), &ite)
	require.ErrorAs(t, o.Fulfill("TRK-1"), &ite)

	// cancel again is a no-op, first reason wins
	require.NoError(t, o.Cancel("another reason"))
	assert.Equal(t, "user_request", o.CancelReason)
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"processing": StatusCreated,
		"shipped":    StatusPaid,
		"delivered":  StatusFulfilled,
		"canceled":   StatusCanceled,
		"SHIPPED":    StatusPaid,
		"typo":       StatusCreated,
		"":           StatusCreated,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseStatus(in), "input %q", in)
	}
}

func TestGroupKeyPrecedence(t *testing.T) {
	o := newTestOrder(t)

	o.ClientKey = "client-7"
	assert.Equal(t, "client-7", o.GroupKey())

	o.ClientKey = "  "
	assert.Equal(t, "ana@example.com", o.GroupKey())

	o.Customer.Email = ""
	assert.Equal(t, "guest", o.GroupKey())
}
