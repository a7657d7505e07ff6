package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/service"
	"github.com/fairyhunter13/secure-checkout-system/pkg/database"
)

// OrderRepository provides data access for orders using pgx.
type OrderRepository struct {
	pool PoolInterface
}

// NewOrderRepository creates a new OrderRepository with the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// NewOrderRepositoryWithPool creates a new OrderRepository with a custom pool interface.
// This is primarily used for testing.
func NewOrderRepositoryWithPool(pool PoolInterface) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert persists an order and its line-item snapshot within a transaction.
// The UNIQUE constraint on gateway_order_id is the idempotency backbone:
// a duplicate insert returns service.ErrOrderExists, which the verifier
// resolves to the original success result.
func (r *OrderRepository) Insert(ctx context.Context, tx database.TxQuerier, order *model.Order, items []model.LineItem) error {
	query := `INSERT INTO orders
	          (id, user_id, total_amount, coupon_id, discount_percentage,
	           gateway_order_id, gateway_payment_id, gateway_signature, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.TotalAmount, order.CouponID, order.DiscountPercentage,
		order.GatewayOrderID, order.GatewayPaymentID, order.GatewaySignature, order.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			order.ID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", item.ProductID, err)
		}
	}
	return nil
}

// GetByGatewayOrderID retrieves an order by its gateway order id.
// Returns nil, nil when not found (service layer handles this).
func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	query := `SELECT id, user_id, total_amount, coupon_id, discount_percentage,
	                 gateway_order_id, gateway_payment_id, gateway_signature, status, created_at
	          FROM orders WHERE gateway_order_id = $1`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, gatewayOrderID).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.CouponID,
		&order.DiscountPercentage,
		&order.GatewayOrderID,
		&order.GatewayPaymentID,
		&order.GatewaySignature,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get order by gateway order id %s: %w", gatewayOrderID, err)
	}
	return &order, nil
}
