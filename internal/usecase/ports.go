package usecase

import (
	"context"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
)

// OrderRepo persists order aggregates. UpdateStatusIf is the only write
// path for lifecycle transitions: it compares the stored status against
// the one the caller read and writes the new status plus the transition's
// payload columns in a single statement. A false return means a
// concurrent writer got there first.
type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	SavePaymentToken(ctx context.Context, id, token string) error
	UpdateStatusIf(ctx context.Context, o *domain.Order, from domain.Status) (bool, error)
	// ForceStatus writes the status unconditionally. Used only by the
	// lossy admin status sync, never by lifecycle transitions.
	ForceStatus(ctx context.Context, id string, to domain.Status) error
}

// Estimator is the pricing engine's contract as checkout sees it.
type Estimator interface {
	Estimate(ctx context.Context, lines []pricing.Line, method pricing.ShippingMethod) (pricing.Result, error)
}

// PaymentGateway is the external payment collaborator. Tokens and
// references are opaque strings. CreatePaymentIntent must be idempotent
// on orderID at the collaborator so a timed-out call is safe to retry.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, orderID string, amountMinorUnits int64) (string, error)
	VerifyWebhook(ctx context.Context, payload, signature string) (string, error)
}

// EventPublisher pushes domain facts onto the broker. Implementations
// retry with backoff before giving up; they never publish before the
// caller has durably committed the fact.
type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, ev domain.OrderPaid) error
}

// IdempotencyStore guards checkout against duplicated client requests
// carrying the same idempotency key.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}
