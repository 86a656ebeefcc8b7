package pricing

import (
	"errors"
	"fmt"
)

// ErrEmptyCart rejects an estimate over zero lines.
var ErrEmptyCart = errors.New("cart is empty")

// InvalidQuantityError rejects a line with a non-positive quantity.
type InvalidQuantityError struct {
	BasketID string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("basket %s: quantity must be positive, got %d", e.BasketID, e.Quantity)
}

// InsufficientStockError rejects a line asking for more than the catalog
// currently has.
type InsufficientStockError struct {
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Title, e.Requested, e.Available)
}
