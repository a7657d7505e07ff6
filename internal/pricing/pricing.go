// Package pricing computes checkout totals. It is pure: no I/O, no clock,
// and all arithmetic is done in integer paise so currency amounts are exact.
package pricing

import (
	"errors"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
)

// ErrInvalidCart is returned for an empty or malformed line-item sequence.
var ErrInvalidCart = errors.New("invalid or empty cart")

// Quote is the result of pricing a cart.
type Quote struct {
	Subtotal           int64 // paise, before discount
	Discount           int64 // paise deducted
	Total              int64 // paise, after discount
	DiscountPercentage int
}

// Price computes the total for the given line items with an optional
// percentage discount. The discount is floor(subtotal * pct / 100), matching
// how the gateway amount was computed at intent-creation time, so the same
// inputs always reprice to the same total.
//
// Items must be non-empty with quantity >= 1 and unit price >= 0;
// discountPercentage must be within 0..100. Violations return ErrInvalidCart.
func Price(items []model.LineItem, discountPercentage int) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrInvalidCart
	}
	if discountPercentage < 0 || discountPercentage > 100 {
		return nil, ErrInvalidCart
	}

	var subtotal int64
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			return nil, ErrInvalidCart
		}
		subtotal += item.UnitPrice * item.Quantity
	}

	// Integer division floors for non-negative operands.
	discount := subtotal * int64(discountPercentage) / 100

	return &Quote{
		Subtotal:           subtotal,
		Discount:           discount,
		Total:              subtotal - discount,
		DiscountPercentage: discountPercentage,
	}, nil
}
