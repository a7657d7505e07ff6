package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/pkg/database"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	FindActive(ctx context.Context, code, userID string) (*model.Coupon, error)
	Redeem(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error
	Insert(ctx context.Context, coupon *model.Coupon) error
}

// CouponLifecycle manages the coupon state machine: validation during
// pricing, redemption inside the verifier's transaction, and reward issuance
// once a verified order crosses the configured threshold.
type CouponLifecycle struct {
	coupons           CouponRepositoryInterface
	rewardDiscountPct int
}

// NewCouponLifecycle creates a CouponLifecycle. rewardDiscountPct is the
// discount percentage carried by issued reward coupons.
func NewCouponLifecycle(coupons CouponRepositoryInterface, rewardDiscountPct int) *CouponLifecycle {
	return &CouponLifecycle{coupons: coupons, rewardDiscountPct: rewardDiscountPct}
}

// Validate looks up an active coupon matching (code, owning user). Read-only.
// Returns ErrCouponNotFound when no such coupon exists; callers decide
// whether that blocks the operation (at checkout it never does).
func (l *CouponLifecycle) Validate(ctx context.Context, code, userID string) (*model.Coupon, error) {
	coupon, err := l.coupons.FindActive(ctx, code, userID)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Redeem flips the coupon inactive and links it to the redeeming order.
// Must run inside the same transaction that inserts the order.
// Returns ErrCouponRedeemed if the coupon is already spent.
func (l *CouponLifecycle) Redeem(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error {
	return l.coupons.Redeem(ctx, tx, couponID, orderID)
}

// IssueReward creates a fresh active coupon for the user.
func (l *CouponLifecycle) IssueReward(ctx context.Context, userID string) (*model.Coupon, error) {
	coupon := &model.Coupon{
		ID:                 uuid.New(),
		Code:               rewardCode(),
		UserID:             userID,
		DiscountPercentage: l.rewardDiscountPct,
		IsActive:           true,
	}
	if err := l.coupons.Insert(ctx, coupon); err != nil {
		return nil, fmt.Errorf("issue reward coupon: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("coupon_code", coupon.Code).
		Int("discount_percentage", coupon.DiscountPercentage).
		Msg("reward coupon issued")

	return coupon, nil
}

// rewardCode generates a GIFT-prefixed code unique enough that the
// (code, user) constraint never trips in practice.
func rewardCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "GIFT-" + suffix
}
