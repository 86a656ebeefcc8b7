package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
)

type CheckoutInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        domain.ShippingAddress
	ShippingMethod string
	GiftNote       string
	ClientKey      string
	IdempotencyKey string
	Items          []pricing.Line
}

type CheckoutOutput struct {
	OrderID      string
	OrderNumber  string
	PaymentToken string
}

// Checkout prices a basket, freezes the result into an order snapshot,
// and requests a payment intent for it.
type Checkout struct {
	estimator  Estimator
	orders     OrderRepo
	payments   PaymentGateway
	idem       IdempotencyStore
	currency   string
	payTimeout time.Duration
	now        func() time.Time
	log        *slog.Logger
}

func NewCheckout(estimator Estimator, orders OrderRepo, payments PaymentGateway, idem IdempotencyStore, currency string, payTimeout time.Duration) *Checkout {
	return &Checkout{
		estimator:  estimator,
		orders:     orders,
		payments:   payments,
		idem:       idem,
		currency:   currency,
		payTimeout: payTimeout,
		now:        time.Now,
		log:        logging.New("checkout"),
	}
}

// Execute runs the checkout steps in order, each a hard precondition for
// the next: estimate, snapshot, persist, payment intent, token persist.
// An estimate failure aborts with nothing persisted. A payment failure
// leaves the CREATED order persisted without a token and returns a
// retryable UpstreamError alongside the order identity, so the caller
// can re-request a payment intent against the same order.
func (c *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if in.IdempotencyKey != "" {
		id, ok, err := c.idem.Recall(ctx, in.ClientKey, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, fmt.Errorf("idempotency lookup: %w", err)
		}
		if ok {
			prev, err := c.orders.GetByID(ctx, id)
			if err != nil {
				return CheckoutOutput{}, fmt.Errorf("replay order %s: %w", id, err)
			}
			return CheckoutOutput{OrderID: prev.ID, OrderNumber: prev.OrderNumber, PaymentToken: prev.PaymentToken}, nil
		}
		ok, err = c.idem.TryLock(ctx, in.ClientKey, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, fmt.Errorf("idempotency lock: %w", err)
		}
		if !ok {
			return CheckoutOutput{}, ErrDuplicateCheckout
		}
	}

	estimate, err := c.estimator.Estimate(ctx, in.Items, pricing.ShippingMethodFrom(in.ShippingMethod))
	if err != nil {
		return CheckoutOutput{}, err
	}

	items := make([]domain.OrderItem, 0, len(estimate.Lines))
	for _, ln := range estimate.Lines {
		items = append(items, domain.OrderItem{
			BasketID:   ln.BasketID,
			Title:      ln.Title,
			UnitAmount: ln.UnitPrice,
			Quantity:   ln.Quantity,
		})
	}

	order, err := domain.NewOrder(domain.OrderDraft{
		ClientKey: in.ClientKey,
		Customer: domain.Customer{
			Name:  strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName),
			Email: strings.ToLower(strings.TrimSpace(in.Email)),
			Phone: in.Phone,
		},
		Address:     in.Address,
		GiftNote:    in.GiftNote,
		Currency:    c.currency,
		ShippingFee: estimate.Shipping,
		VATAmount:   estimate.VAT,
		TotalAmount: estimate.Total,
		Items:       items,
	}, c.now())
	if err != nil {
		return CheckoutOutput{}, err
	}

	if err := c.orders.Create(ctx, order); err != nil {
		return CheckoutOutput{}, fmt.Errorf("persist order: %w", err)
	}
	if in.IdempotencyKey != "" {
		// without the mapping a later replay re-runs checkout and mints a
		// second order; worth a warning even though the order itself is fine
		if err := c.idem.Remember(ctx, in.ClientKey, in.IdempotencyKey, order.ID); err != nil {
			c.log.Warn("idempotency mapping not stored",
				"order_id", order.ID, "error", err)
		}
	}

	out := CheckoutOutput{OrderID: order.ID, OrderNumber: order.OrderNumber}

	payCtx, cancel := context.WithTimeout(ctx, c.payTimeout)
	defer cancel()
	token, err := c.payments.CreatePaymentIntent(payCtx, order.ID, domain.MinorUnits(order.TotalAmount))
	if err != nil {
		c.log.Warn("payment intent failed, order kept without token",
			"order_id", order.ID, "error", err)
		return out, &UpstreamError{Op: "payment-intent", Err: err}
	}

	if err := c.orders.SavePaymentToken(ctx, order.ID, token); err != nil {
		c.log.Warn("payment token not persisted", "order_id", order.ID, "error", err)
		return out, &UpstreamError{Op: "payment-token", Err: err}
	}

	out.PaymentToken = token
	return out, nil
}
