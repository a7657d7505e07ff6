package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/service"
	"github.com/fairyhunter13/secure-checkout-system/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindActive retrieves the active coupon matching (code, owning user).
// Returns nil, nil when no such coupon exists (service layer handles this).
func (r *CouponRepository) FindActive(ctx context.Context, code, userID string) (*model.Coupon, error) {
	query := `SELECT id, code, user_id, discount_percentage, is_active, redeemed_by_order_id, created_at
	          FROM coupons WHERE code = $1 AND user_id = $2 AND is_active = TRUE`

	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, code, userID).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.UserID,
		&coupon.DiscountPercentage,
		&coupon.IsActive,
		&coupon.RedeemedByOrderID,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("find active coupon %s: %w", code, err)
	}
	return &coupon, nil
}

// Redeem flips the coupon to inactive and records the redeeming order id.
// Must be called within the transaction that inserts the order, so both
// succeed or both roll back. Returns service.ErrCouponRedeemed when the
// coupon was already inactive: a coupon redeems at most one order.
func (r *CouponRepository) Redeem(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error {
	query := `UPDATE coupons SET is_active = FALSE, redeemed_by_order_id = $2
	          WHERE id = $1 AND is_active = TRUE`

	tag, err := tx.Exec(ctx, query, couponID, orderID)
	if err != nil {
		return fmt.Errorf("redeem coupon %s: %w", couponID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponRedeemed
	}
	return nil
}

// Insert inserts a new coupon (reward issuance).
// Returns service.ErrCouponExists when the (code, user) pair already exists.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	query := `INSERT INTO coupons (id, code, user_id, discount_percentage, is_active)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		coupon.ID, coupon.Code, coupon.UserID, coupon.DiscountPercentage, coupon.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}
