package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusFulfilled Status = "FULFILLED"
	StatusCanceled  Status = "CANCELED"
)

// ParseStatus maps the storefront's public status vocabulary onto order
// states. Unrecognized values fall back to CREATED; callers that want
// strict validation must check the input themselves.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shipped":
		return StatusPaid
	case "delivered":
		return StatusFulfilled
	case "canceled":
		return StatusCanceled
	default:
		return StatusCreated
	}
}

type action int

const (
	actionPay action = iota
	actionFulfill
	actionCancel
)

func (a action) String() string {
	switch a {
	case actionPay:
		return "pay"
	case actionFulfill:
		return "fulfill"
	default:
		return "cancel"
	}
}

// IllegalTransitionError reports a state-machine violation together with
// the order's current status and the attempted action.
type IllegalTransitionError struct {
	From   Status
	Action string
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order in status %s: %s", e.Action, e.From, e.Reason)
}

// transition is the whole state machine: given the current status and an
// action it returns the next status, whether the call is an idempotent
// no-op, or an IllegalTransitionError. It never touches order fields.
func transition(cur Status, act action) (next Status, noop bool, err error) {
	switch cur {
	case StatusCreated:
		switch act {
		case actionPay:
			return StatusPaid, false, nil
		case actionFulfill:
			return cur, false, &IllegalTransitionError{From: cur, Action: act.String(), Reason: "must be paid first"}
		case actionCancel:
			return StatusCanceled, false, nil
		}
	case StatusPaid:
		switch act {
		case actionPay:
			return cur, true, nil
		case actionFulfill:
			return StatusFulfilled, false, nil
		case actionCancel:
			return StatusCanceled, false, nil
		}
	case StatusFulfilled:
		switch act {
		case actionPay, actionFulfill:
			return cur, true, nil
		case actionCancel:
			return cur, false, &IllegalTransitionError{From: cur, Action: act.String(), Reason: "cannot cancel fulfilled order"}
		}
	case StatusCanceled:
		switch act {
		case actionPay, actionFulfill:
			return cur, false, &IllegalTransitionError{From: cur, Action: act.String(), Reason: "canceled"}
		case actionCancel:
			return cur, true, nil
		}
	}
	return cur, false, &IllegalTransitionError{From: cur, Action: act.String(), Reason: "unknown status"}
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode"`
}

// OrderItem is owned by exactly one Order and snapshots the basket's
// title and unit price at checkout time.
type OrderItem struct {
	BasketID   string          `json:"basketId"`
	Title      string          `json:"title"`
	UnitAmount decimal.Decimal `json:"unitAmount"`
	Quantity   int             `json:"quantity"`
}

// Order is a financial snapshot frozen at creation time. The totals are
// never recomputed after NewOrder; later catalog price changes do not
// touch existing orders. Status moves only through Pay/Fulfill/Cancel.
type Order struct {
	ID          string
	OrderNumber string
	Status      Status

	ClientKey string
	Customer  Customer
	Address   ShippingAddress
	GiftNote  string

	Currency    string
	ShippingFee decimal.Decimal
	VATAmount   decimal.Decimal
	TotalAmount decimal.Decimal

	PaymentToken   string // payment-intent token, set after checkout
	PaymentRef     string // set by Pay
	TrackingNumber string // set by Fulfill
	CancelReason   string // set by Cancel

	Items     []OrderItem
	CreatedAt time.Time
}

// OrderDraft carries everything NewOrder needs to mint a fully-formed
// order. There is no partially-constructed order observable anywhere.
type OrderDraft struct {
	ClientKey   string
	Customer    Customer
	Address     ShippingAddress
	GiftNote    string
	Currency    string
	ShippingFee decimal.Decimal
	VATAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Items       []OrderItem
}

var ErrNoItems = errors.New("order needs at least one item")

// NewOrder builds an order in CREATED with the draft's frozen totals.
// The order number is derived from the creation timestamp.
func NewOrder(d OrderDraft, now time.Time) (*Order, error) {
	if len(d.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("order item %s: quantity must be >= 1", it.BasketID)
		}
	}
	items := make([]OrderItem, len(d.Items))
	copy(items, d.Items)

	return &Order{
		ID:          uuid.NewString(),
		OrderNumber: "BK-" + strconv.FormatInt(now.UnixMilli(), 10),
		Status:      StatusCreated,
		ClientKey:   d.ClientKey,
		Customer:    d.Customer,
		Address:     d.Address,
		GiftNote:    d.GiftNote,
		Currency:    d.Currency,
		ShippingFee: d.ShippingFee,
		VATAmount:   d.VATAmount,
		TotalAmount: d.TotalAmount,
		Items:       items,
		CreatedAt:   now,
	}, nil
}

// Pay moves CREATED -> PAID and records the payment reference. Replayed
// webhooks hit the PAID no-op cell and keep the first reference.
func (o *Order) Pay(ref string) error {
	next, noop, err := transition(o.Status, actionPay)
	if err != nil || noop {
		return err
	}
	o.Status = next
	o.PaymentRef = ref
	return nil
}

// Fulfill moves PAID -> FULFILLED and records the tracking number.
func (o *Order) Fulfill(tracking string) error {
	next, noop, err := transition(o.Status, actionFulfill)
	if err != nil || noop {
		return err
	}
	o.Status = next
	o.TrackingNumber = tracking
	return nil
}

// Cancel moves CREATED or PAID -> CANCELED and records the reason.
func (o *Order) Cancel(reason string) error {
	next, noop, err := transition(o.Status, actionCancel)
	if err != nil || noop {
		return err
	}
	o.Status = next
	o.CancelReason = reason
	return nil
}

// GroupKey is the owning-customer key used by the read side: explicit
// client key, else customer email, else "guest".
func (o *Order) GroupKey() string {
	if strings.TrimSpace(o.ClientKey) != "" {
		return o.ClientKey
	}
	if strings.TrimSpace(o.Customer.Email) != "" {
		return o.Customer.Email
	}
	return "guest"
}
