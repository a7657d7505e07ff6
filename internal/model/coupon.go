package model

import (
	"time"

	"github.com/google/uuid"
)

// Coupon represents a percentage discount owned by a single user.
// A coupon is spendable while IsActive is true; redemption flips the flag
// and records the order that consumed it. Coupons are never deleted.
type Coupon struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	UserID             string     `json:"user_id"`
	DiscountPercentage int        `json:"discount_percentage"`
	IsActive           bool       `json:"is_active"`
	RedeemedByOrderID  *uuid.UUID `json:"redeemed_by_order_id,omitempty"`
	CreatedAt          time.Time  `json:"-"` // Not exposed in API
}
