package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
}

func NewCheckoutHandler(checkout *usecase.Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutAddress struct {
	Line1      string `json:"line1" binding:"required,max=160"`
	Line2      string `json:"line2" binding:"max=160"`
	City       string `json:"city" binding:"required,max=80"`
	County     string `json:"county" binding:"required,max=80"`
	PostalCode string `json:"postalCode" binding:"required,max=16"`
}

type checkoutItem struct {
	BasketID string `json:"basketId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type checkoutReq struct {
	FirstName      string          `json:"firstName" binding:"required,max=50"`
	LastName       string          `json:"lastName" binding:"required,max=50"`
	Email          string          `json:"email" binding:"required,email"`
	Phone          string          `json:"phone" binding:"required,max=20"`
	Address        checkoutAddress `json:"address" binding:"required"`
	ShippingMethod string          `json:"shippingMethod" binding:"max=20"`
	GiftMessage    string          `json:"giftMessage" binding:"max=512"`
	ClientKey      string          `json:"clientKey" binding:"max=80"`
	Items          []checkoutItem  `json:"items" binding:"required"`
}

type checkoutResp struct {
	OrderID      string `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	PaymentToken string `json:"paymentToken,omitempty"`
}

// InitCheckout prices the basket, persists the order snapshot, and
// requests a payment intent. A payment-step failure still returns the
// persisted order identity so the client can retry the payment alone.
func (h *CheckoutHandler) InitCheckout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, pricing.Line{BasketID: it.BasketID, Quantity: it.Quantity})
	}

	out, err := h.checkout.Execute(c.Request.Context(), usecase.CheckoutInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address: domain.ShippingAddress{
			Line1:      req.Address.Line1,
			Line2:      req.Address.Line2,
			City:       req.Address.City,
			County:     req.Address.County,
			PostalCode: req.Address.PostalCode,
		},
		ShippingMethod: req.ShippingMethod,
		GiftNote:       req.GiftMessage,
		ClientKey:      req.ClientKey,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
		Items:          lines,
	})
	if err != nil {
		var upstream *usecase.UpstreamError
		if errors.As(err, &upstream) && out.OrderID != "" {
			logging.From(c).Warn("checkout payment step failed",
				"order_id", out.OrderID, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"orderId":     out.OrderID,
				"orderNumber": out.OrderNumber,
				"error":       "payment_unavailable",
				"retryable":   true,
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkoutResp{
		OrderID:      out.OrderID,
		OrderNumber:  out.OrderNumber,
		PaymentToken: out.PaymentToken,
	})
}
