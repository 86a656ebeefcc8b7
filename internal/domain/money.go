package domain

import "github.com/shopspring/decimal"

// Money pairs a decimal amount with an ISO currency code. All arithmetic
// stays decimal; rounding happens only at the point a total is finalized.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// RoundHalfUp2 rounds to 2 fractional digits, half-up.
// decimal.Round rounds half away from zero, which for the non-negative
// amounts used here is the same thing.
func RoundHalfUp2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MinorUnits converts a major-unit amount to the currency's minor unit,
// rounded half-up. 124.50 RON -> 12450 bani.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
