package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[string]Basket

func (c stubCatalog) BasketByID(_ context.Context, id string) (Basket, error) {
	b, ok := c[id]
	if !ok {
		return Basket{}, errors.New("no such basket")
	}
	return b, nil
}

func testCatalog() stubCatalog {
	return stubCatalog{
		"b1": {ID: "b1", Slug: "spring-basket", Title: "Spring Basket", Price: decimal.NewFromInt(100), Stock: 10},
		"b2": {ID: "b2", Slug: "tea-time", Title: "Tea Time", Price: decimal.RequireFromString("49.90"), Stock: 2},
	}
}

func TestEstimateStandardShipping(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	res, err := e.Estimate(context.Background(), []Line{{BasketID: "b1", Quantity: 1}}, ShippingStandard)
	require.NoError(t, err)

	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", res.Subtotal)
	assert.True(t, res.Shipping.Equal(decimal.NewFromInt(25)), "shipping %s", res.Shipping)
	// (100 + 25) * 0.19 = 23.75
	assert.Equal(t, "23.75", res.VAT.StringFixed(2))
	assert.Equal(t, "148.75", res.Total.StringFixed(2))

	require.Len(t, res.Lines, 1)
	assert.Equal(t, "Spring Basket", res.Lines[0].Title)
	assert.True(t, res.Lines[0].LineTotal.Equal(decimal.NewFromInt(100)))
}

func TestEstimateExpressShipping(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	res, err := e.Estimate(context.Background(), []Line{{BasketID: "b1", Quantity: 1}}, ShippingExpress)
	require.NoError(t, err)

	assert.True(t, res.Shipping.Equal(decimal.NewFromInt(35)))
	// (100 + 35) * 0.19 = 25.65
	assert.Equal(t, "25.65", res.VAT.StringFixed(2))
	assert.Equal(t, "160.65", res.Total.StringFixed(2))
}

func TestEstimateTotalHasNoDrift(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	res, err := e.Estimate(context.Background(), []Line{
		{BasketID: "b1", Quantity: 3},
		{BasketID: "b2", Quantity: 2},
	}, ShippingExpress)
	require.NoError(t, err)

	sum := res.Subtotal.Add(res.Shipping).Add(res.VAT)
	assert.True(t, res.Total.Equal(sum), "total %s != subtotal+shipping+vat %s", res.Total, sum)
}

func TestEstimateEmptyCart(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	_, err := e.Estimate(context.Background(), nil, ShippingStandard)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestEstimateInvalidQuantity(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	_, err := e.Estimate(context.Background(), []Line{{BasketID: "b1", Quantity: 0}}, ShippingStandard)
	var iq *InvalidQuantityError
	require.ErrorAs(t, err, &iq)
	assert.Equal(t, "b1", iq.BasketID)
}

func TestEstimateInsufficientStock(t *testing.T) {
	e := NewEngine(testCatalog(), decimal.RequireFromString("0.19"))

	_, err := e.Estimate(context.Background(), []Line{{BasketID: "b2", Quantity: 3}}, ShippingStandard)
	var is *InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, "Tea Time", is.Title)
	assert.Equal(t, 3, is.Requested)
	assert.Equal(t, 2, is.Available)
}

func TestShippingMethodFrom(t *testing.T) {
	assert.Equal(t, ShippingExpress, ShippingMethodFrom("express"))
	assert.Equal(t, ShippingExpress, ShippingMethodFrom("EXPRESS"))
	assert.Equal(t, ShippingStandard, ShippingMethodFrom("standard"))
	assert.Equal(t, ShippingStandard, ShippingMethodFrom(""))
	assert.Equal(t, ShippingStandard, ShippingMethodFrom("overnight"))
}
