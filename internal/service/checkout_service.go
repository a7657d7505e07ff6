package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/secure-checkout-system/internal/gateway"
	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/pricing"
)

// CouponValidator defines the read-only coupon lookup used during pricing.
type CouponValidator interface {
	Validate(ctx context.Context, code, userID string) (*model.Coupon, error)
}

// CheckoutService prices a cart and opens a payment intent at the gateway.
// It always computes the total itself; a client-supplied total never decides
// what the gateway charges.
type CheckoutService struct {
	gateway  gateway.Client
	coupons  CouponValidator
	currency string
}

// NewCheckoutService creates a CheckoutService charging in the given currency.
func NewCheckoutService(gw gateway.Client, coupons CouponValidator, currency string) *CheckoutService {
	return &CheckoutService{gateway: gw, coupons: coupons, currency: currency}
}

// Checkout prices the cart, applying at most one coupon, and creates one
// gateway intent carrying the metadata bundle the verifier will later
// reconcile against. An invalid or inactive coupon degrades silently to no
// discount rather than blocking checkout.
//
// Returns pricing.ErrInvalidCart for an empty or malformed cart and
// gateway.ErrUnavailable when the intent cannot be created.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, items []model.LineItem, couponCode string) (*model.CheckoutResponse, error) {
	discountPct := 0
	couponID := ""
	if couponCode != "" {
		coupon, err := s.coupons.Validate(ctx, couponCode, userID)
		switch {
		case err == nil:
			discountPct = coupon.DiscountPercentage
			couponID = coupon.ID.String()
		case errors.Is(err, ErrCouponNotFound):
			log.Info().
				Str("user_id", userID).
				Str("coupon_code", couponCode).
				Msg("coupon invalid or inactive, pricing without discount")
		default:
			return nil, fmt.Errorf("validate coupon: %w", err)
		}
	}

	quote, err := pricing.Price(items, discountPct)
	if err != nil {
		return nil, err
	}

	receipt := gateway.ReceiptToken(userID, items, couponCode, time.Now())
	md := gateway.Metadata{
		UserID:             userID,
		CouponID:           couponID,
		DiscountPercentage: discountPct,
		Items:              items,
	}

	intent, err := s.gateway.CreateIntent(ctx, quote.Total, s.currency, receipt, md)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("gateway_order_id", intent.ID).
		Int64("amount", quote.Total).
		Int64("discount", quote.Discount).
		Msg("payment intent created")

	return &model.CheckoutResponse{
		OrderID:  intent.ID,
		Amount:   quote.Total,
		Currency: s.currency,
	}, nil
}
