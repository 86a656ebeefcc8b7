package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

// writeError maps the error taxonomy onto HTTP responses. Client-input
// rejections carry a precise reason and are final; conflicts and
// upstream failures are marked retryable.
func writeError(c *gin.Context, err error) {
	var (
		invalidQty   *pricing.InvalidQuantityError
		noStock      *pricing.InsufficientStockError
		illegalMove  *domain.IllegalTransitionError
		upstreamFail *usecase.UpstreamError
	)

	switch {
	case errors.Is(err, pricing.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart", "message": err.Error()})
	case errors.As(err, &invalidQty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_quantity", "message": err.Error()})
	case errors.As(err, &noStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient_stock", "message": err.Error()})
	case errors.Is(err, usecase.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.As(err, &illegalMove):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "illegal_transition",
			"status":  string(illegalMove.From),
			"action":  illegalMove.Action,
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "retryable": true})
	case errors.Is(err, usecase.ErrDuplicateCheckout):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_request"})
	case errors.As(err, &upstreamFail):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream_unavailable", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
