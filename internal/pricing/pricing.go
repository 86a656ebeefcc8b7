// Package pricing computes checkout estimates: line totals, the shipping
// tier fee, VAT, and the grand total. It is a pure computation over its
// inputs plus one live catalog read per line.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "STANDARD"
	ShippingExpress  ShippingMethod = "EXPRESS"
)

var (
	standardShippingFee = decimal.NewFromInt(25)
	expressShippingFee  = decimal.NewFromInt(35)
)

// ShippingMethodFrom maps a client-supplied method string to a tier.
// Anything that is not "express" (case-insensitive), including the empty
// string, selects STANDARD.
func ShippingMethodFrom(s string) ShippingMethod {
	if equalsIgnoreCase(s, "express") {
		return ShippingExpress
	}
	return ShippingStandard
}

func equalsIgnoreCase(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (m ShippingMethod) Fee() decimal.Decimal {
	if m == ShippingExpress {
		return expressShippingFee
	}
	return standardShippingFee
}

// Basket is the catalog's view of one product at estimate time.
type Basket struct {
	ID    string
	Slug  string
	Title string
	Price decimal.Decimal
	Stock int
}

// CatalogReader supplies current price and stock. Authoritative at
// estimate time; the engine never caches it.
type CatalogReader interface {
	BasketByID(ctx context.Context, id string) (Basket, error)
}

// Line is one transient basket line feeding a single estimate.
type Line struct {
	BasketID string
	Quantity int
}

type EstimateLine struct {
	BasketID  string          `json:"basketId"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Result struct {
	Lines    []EstimateLine  `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
	VATRate  decimal.Decimal `json:"vatRate"`
}

type Engine struct {
	catalog CatalogReader
	vatRate decimal.Decimal
}

// NewEngine builds an engine with the injected VAT rate (e.g. 0.19).
func NewEngine(catalog CatalogReader, vatRate decimal.Decimal) *Engine {
	return &Engine{catalog: catalog, vatRate: vatRate}
}

// Estimate prices the given lines under the selected shipping tier.
// VAT = roundHalfUp2((subtotal + shipping) * vatRate), rounded exactly
// once; the total sums the exact subtotal+shipping with that rounded VAT
// so total == subtotal + shipping + vat holds to the cent.
func (e *Engine) Estimate(ctx context.Context, lines []Line, method ShippingMethod) (Result, error) {
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}

	out := make([]EstimateLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return Result{}, &InvalidQuantityError{BasketID: ln.BasketID, Quantity: ln.Quantity}
		}
		basket, err := e.catalog.BasketByID(ctx, ln.BasketID)
		if err != nil {
			return Result{}, fmt.Errorf("basket %s: %w", ln.BasketID, err)
		}
		if basket.Stock < ln.Quantity {
			return Result{}, &InsufficientStockError{Title: basket.Title, Requested: ln.Quantity, Available: basket.Stock}
		}
		lineTotal := basket.Price.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		out = append(out, EstimateLine{
			BasketID:  basket.ID,
			Slug:      basket.Slug,
			Title:     basket.Title,
			UnitPrice: basket.Price,
			Quantity:  ln.Quantity,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	shipping := method.Fee()
	base := subtotal.Add(shipping)
	vat := domain.RoundHalfUp2(base.Mul(e.vatRate))
	total := domain.RoundHalfUp2(base.Add(vat))

	return Result{
		Lines:    out,
		Subtotal: subtotal,
		Shipping: shipping,
		VAT:      vat,
		Total:    total,
		VATRate:  e.vatRate,
	}, nil
}
