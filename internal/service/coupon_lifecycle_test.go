package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/pkg/database"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	findActiveFn func(ctx context.Context, code, userID string) (*model.Coupon, error)
	redeemFn     func(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error
	insertFn     func(ctx context.Context, coupon *model.Coupon) error
}

func (m *mockCouponRepository) FindActive(ctx context.Context, code, userID string) (*model.Coupon, error) {
	if m.findActiveFn != nil {
		return m.findActiveFn(ctx, code, userID)
	}
	return nil, nil
}

func (m *mockCouponRepository) Redeem(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, tx, couponID, orderID)
	}
	return nil
}

func (m *mockCouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, coupon)
	}
	return nil
}

func TestCouponLifecycle_Validate_Found(t *testing.T) {
	couponID := uuid.New()
	repo := &mockCouponRepository{
		findActiveFn: func(ctx context.Context, code, userID string) (*model.Coupon, error) {
			return &model.Coupon{ID: couponID, Code: code, UserID: userID, DiscountPercentage: 10, IsActive: true}, nil
		},
	}

	lc := NewCouponLifecycle(repo, 10)
	coupon, err := lc.Validate(context.Background(), "PROMO10", "user_001")

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, couponID, coupon.ID)
}

func TestCouponLifecycle_Validate_NotFound(t *testing.T) {
	repo := &mockCouponRepository{
		findActiveFn: func(ctx context.Context, code, userID string) (*model.Coupon, error) {
			return nil, nil
		},
	}

	lc := NewCouponLifecycle(repo, 10)
	coupon, err := lc.Validate(context.Background(), "NOPE", "user_001")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
	assert.Nil(t, coupon)
}

func TestCouponLifecycle_Validate_StoreError(t *testing.T) {
	dbErr := errors.New("database connection failed")
	repo := &mockCouponRepository{
		findActiveFn: func(ctx context.Context, code, userID string) (*model.Coupon, error) {
			return nil, dbErr
		},
	}

	lc := NewCouponLifecycle(repo, 10)
	_, err := lc.Validate(context.Background(), "PROMO10", "user_001")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCouponNotFound))
}

func TestCouponLifecycle_IssueReward(t *testing.T) {
	var inserted *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, coupon *model.Coupon) error {
			inserted = coupon
			return nil
		},
	}

	lc := NewCouponLifecycle(repo, 10)
	coupon, err := lc.IssueReward(context.Background(), "user_001")

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, coupon, inserted)
	assert.Equal(t, "user_001", inserted.UserID)
	assert.Equal(t, 10, inserted.DiscountPercentage)
	assert.True(t, inserted.IsActive)
	assert.True(t, strings.HasPrefix(inserted.Code, "GIFT-"), "reward codes carry the GIFT prefix")
}

func TestCouponLifecycle_IssueReward_UniqueCodes(t *testing.T) {
	lc := NewCouponLifecycle(&mockCouponRepository{}, 10)

	first, err := lc.IssueReward(context.Background(), "user_001")
	require.NoError(t, err)
	second, err := lc.IssueReward(context.Background(), "user_001")
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
}
