package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
)

// OrderView is the read-side projection returned by listing and status
// endpoints.
type OrderView struct {
	ID         string                 `json:"id"`
	Number     string                 `json:"number"`
	Status     string                 `json:"status"`
	ClientKey  string                 `json:"clientKey,omitempty"`
	Customer   domain.Customer        `json:"customer"`
	Address    domain.ShippingAddress `json:"address"`
	GiftNote   string                 `json:"giftNote,omitempty"`
	Currency   string                 `json:"currency"`
	Shipping   decimal.Decimal        `json:"shipping"`
	VAT        decimal.Decimal        `json:"vat"`
	Total      decimal.Decimal        `json:"total"`
	PaymentRef string                 `json:"paymentRef,omitempty"`
	Tracking   string                 `json:"tracking,omitempty"`
	CancelNote string                 `json:"cancelReason,omitempty"`
	Items      []domain.OrderItem     `json:"items"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func NewOrderView(o *domain.Order) OrderView {
	return OrderView{
		ID:         o.ID,
		Number:     o.OrderNumber,
		Status:     string(o.Status),
		ClientKey:  o.ClientKey,
		Customer:   o.Customer,
		Address:    o.Address,
		GiftNote:   o.GiftNote,
		Currency:   o.Currency,
		Shipping:   o.ShippingFee,
		VAT:        o.VATAmount,
		Total:      o.TotalAmount,
		PaymentRef: o.PaymentRef,
		Tracking:   o.TrackingNumber,
		CancelNote: o.CancelReason,
		Items:      o.Items,
		CreatedAt:  o.CreatedAt,
	}
}
