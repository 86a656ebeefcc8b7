package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type WebhookHandler struct {
	payments usecase.PaymentGateway
	orders   *usecase.Orders
}

func NewWebhookHandler(payments usecase.PaymentGateway, orders *usecase.Orders) *WebhookHandler {
	return &WebhookHandler{payments: payments, orders: orders}
}

type webhookReq struct {
	OrderID   string `json:"orderId" binding:"required"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Simulate verifies a (fake) payment webhook and marks the order paid.
// Payment processors redeliver webhooks, so this endpoint must tolerate
// replay: MarkPaid keeps the first reference and downstream dedup
// absorbs the repeated OrderPaid publication.
func (h *WebhookHandler) Simulate(c *gin.Context) {
	var req webhookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	ref, err := h.payments.VerifyWebhook(c.Request.Context(), req.Payload, req.Signature)
	if err != nil {
		writeError(c, &usecase.UpstreamError{Op: "webhook-verify", Err: err})
		return
	}

	if _, err := h.orders.MarkPaid(c.Request.Context(), req.OrderID, ref); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
