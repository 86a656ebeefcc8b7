package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type OrderHandler struct {
	orders *usecase.Orders
}

func NewOrderHandler(orders *usecase.Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List returns all orders grouped by owning-customer key.
func (h *OrderHandler) List(c *gin.Context) {
	grouped, err := h.orders.ListGroupedByCustomer(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

type bodyMap map[string]string

func valueOr(b bodyMap, key, fallback string) string {
	if v, ok := b[key]; ok && v != "" {
		return v
	}
	return fallback
}

// MarkPaid is the manual counterpart of the payment webhook.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	var body bodyMap
	_ = c.ShouldBindJSON(&body)

	o, err := h.orders.MarkPaid(c.Request.Context(), c.Param("id"), valueOr(body, "paymentRef", "TEST-REF"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usecase.NewOrderView(o))
}

func (h *OrderHandler) Fulfill(c *gin.Context) {
	var body bodyMap
	_ = c.ShouldBindJSON(&body)

	o, err := h.orders.Fulfill(c.Request.Context(), c.Param("id"), valueOr(body, "tracking", "TRK-TEST"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usecase.NewOrderView(o))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var body bodyMap
	_ = c.ShouldBindJSON(&body)

	o, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), valueOr(body, "reason", "user_request"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usecase.NewOrderView(o))
}

// UpdateStatus syncs the public status vocabulary onto the order.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var body bodyMap
	_ = c.ShouldBindJSON(&body)

	view, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), valueOr(body, "status", "processing"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
