// Package payment holds the payment-collaborator adapters. Only the
// fake gateway exists for now; it stands in for Stripe during local
// development and returns synthetic tokens.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type FakeGateway struct {
	log *slog.Logger
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{log: logging.New("fake-payment")}
}

var _ usecase.PaymentGateway = (*FakeGateway)(nil)

// CreatePaymentIntent mints a deterministic token from the order
// identity, so retried calls for the same order yield the same token.
func (g *FakeGateway) CreatePaymentIntent(ctx context.Context, orderID string, amountMinorUnits int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	token := fmt.Sprintf("pi_%s_%d", orderID, amountMinorUnits)
	g.log.Info("simulated payment intent",
		"order_id", orderID, "amount_minor", amountMinorUnits, "token", token)
	return token, nil
}

func (g *FakeGateway) VerifyWebhook(ctx context.Context, payload, signature string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := "pay_" + uuid.NewString()
	g.log.Info("simulated webhook verification", "signature", signature, "ref", ref)
	return ref, nil
}
