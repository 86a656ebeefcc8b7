package domain

// OrderPaid is the fact that an order's payment was durably recorded.
// It carries the order identity only; subscribers look up whatever else
// they need. Delivery to subscribers is at-least-once, so consumers must
// deduplicate on OrderID.
type OrderPaid struct {
	OrderID string `json:"orderId"`
}
