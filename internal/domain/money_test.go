package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp2(t *testing.T) {
	cases := map[string]string{
		"23.745": "23.75",
		"23.744": "23.74",
		"23.75":  "23.75",
		"0.005":  "0.01",
		"100":    "100.00",
	}
	for in, want := range cases {
		got := RoundHalfUp2(decimal.RequireFromString(in))
		assert.Equal(t, want, got.StringFixed(2), "input %s", in)
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(12450), MinorUnits(decimal.RequireFromString("124.50")))
	assert.Equal(t, int64(14875), MinorUnits(decimal.RequireFromString("148.75")))
	assert.Equal(t, int64(100), MinorUnits(decimal.NewFromInt(1)))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}
