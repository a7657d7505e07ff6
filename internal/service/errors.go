package service

import "errors"

var (
	// ErrSignatureMismatch is returned when a payment completion notice fails
	// HMAC authentication. Terminal: nothing is persisted, never retried.
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// ErrAmountMismatch is returned when the claimed or gateway-charged total
	// disagrees with the server-side repriced total.
	ErrAmountMismatch = errors.New("order amount mismatch")

	// ErrOrderExists is returned by the order repository when an order with
	// the same gateway order id was already persisted. The verifier resolves
	// it to an idempotent success, not a failure.
	ErrOrderExists = errors.New("order already exists for gateway order id")

	// ErrCouponNotFound is returned when no active coupon matches the code
	// and owning user.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponRedeemed is returned when redeeming a coupon that is no longer
	// active. Defensive: a coupon redeems at most one order.
	ErrCouponRedeemed = errors.New("coupon already redeemed")

	// ErrCouponExists is returned when issuing a coupon whose (code, user)
	// pair already exists.
	ErrCouponExists = errors.New("coupon already exists")
)
