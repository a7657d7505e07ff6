package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusVerified is the only persisted order status: an order row is
// written exactly once, after signature verification, and never updated.
const OrderStatusVerified = "verified"

// Order is the durable financial record of a verified payment.
// GatewayOrderID is unique and acts as the idempotency key: a second
// verification attempt for the same gateway order must not create a second row.
type Order struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             string     `json:"user_id"`
	TotalAmount        int64      `json:"total_amount"` // paise
	CouponID           *uuid.UUID `json:"coupon_id,omitempty"`
	DiscountPercentage int        `json:"discount_percentage"`
	GatewayOrderID     string     `json:"gateway_order_id"`
	GatewayPaymentID   string     `json:"gateway_payment_id"`
	GatewaySignature   string     `json:"-"` // stored for audit, never re-trusted
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
}

// LineItem is a point-in-time snapshot of one cart line: the unit price is
// the price as charged, in paise, never re-read from a live catalog.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // paise
}
