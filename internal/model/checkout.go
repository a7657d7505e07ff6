package model

import "github.com/google/uuid"

// LineItemRequest is one cart line in a checkout request. UnitPrice is in
// paise; it is a pointer so that a zero price (free item) survives the
// "required" validation.
type LineItemRequest struct {
	ProductID string `json:"product_id" validate:"required,notblank,max=255"`
	Quantity  int64  `json:"quantity" validate:"required,gte=1"`
	UnitPrice *int64 `json:"unit_price" validate:"required,gte=0"`
}

// CheckoutRequest is the DTO for POST /api/checkout.
type CheckoutRequest struct {
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code" validate:"omitempty,notblank,max=255"`
}

// CheckoutResponse echoes the gateway intent back to the client.
type CheckoutResponse struct {
	OrderID  string `json:"order_id"` // gateway order id
	Amount   int64  `json:"amount"`   // paise
	Currency string `json:"currency"`
}

// VerifyRequest is the DTO for POST /api/checkout/verify. The three gateway
// fields are exactly what Razorpay hands the client on payment completion.
// ClaimedTotal is advisory: when present it must match the authoritative
// total or verification fails.
type VerifyRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required,notblank,max=255"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required,notblank,max=255"`
	GatewaySignature string `json:"razorpay_signature" validate:"required,notblank,max=512"`
	ClaimedTotal     *int64 `json:"claimed_total" validate:"omitempty,gte=0"`
}

// VerifyResult is returned by the verify service. Duplicate is true when the
// order had already been persisted by an earlier verification of the same
// gateway order id.
type VerifyResult struct {
	OrderID     uuid.UUID
	TotalAmount int64
	Duplicate   bool
}

// VerifyResponse is the DTO returned by POST /api/checkout/verify.
type VerifyResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
}
