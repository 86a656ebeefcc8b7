package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

func runWriteError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"empty cart", pricing.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{"invalid quantity", &pricing.InvalidQuantityError{BasketID: "b1", Quantity: 0}, http.StatusBadRequest, "invalid_quantity"},
		{"insufficient stock", &pricing.InsufficientStockError{Title: "Tea Time", Requested: 3, Available: 2}, http.StatusBadRequest, "insufficient_stock"},
		{"not found", usecase.ErrOrderNotFound, http.StatusNotFound, "not_found"},
		{"conflict", usecase.ErrConflict, http.StatusConflict, "conflict"},
		{"duplicate", usecase.ErrDuplicateCheckout, http.StatusConflict, "duplicate_request"},
		{"upstream", &usecase.UpstreamError{Op: "payment-intent", Err: errors.New("down")}, http.StatusServiceUnavailable, "upstream_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := runWriteError(t, tc.err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantKind, body["error"])
		})
	}
}

func TestWriteErrorIllegalTransitionCarriesContext(t *testing.T) {
	err := &domain.IllegalTransitionError{From: domain.StatusFulfilled, Action: "cancel", Reason: "cannot cancel fulfilled order"}

	code, body := runWriteError(t, err)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "illegal_transition", body["error"])
	assert.Equal(t, "FULFILLED", body["status"])
	assert.Equal(t, "cancel", body["action"])
}

func TestWriteErrorWrappedErrorsStillMap(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), usecase.ErrOrderNotFound)

	code, body := runWriteError(t, wrapped)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body["error"])
}
