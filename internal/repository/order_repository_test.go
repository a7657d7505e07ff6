package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/service"
)

func testOrder() *model.Order {
	return &model.Order{
		ID:               uuid.New(),
		UserID:           "user_001",
		TotalAmount:      900,
		GatewayOrderID:   "order_rzp_123",
		GatewayPaymentID: "pay_rzp_456",
		GatewaySignature: "deadbeef",
		Status:           model.OrderStatusVerified,
	}
}

func TestOrderRepository_Insert_Success(t *testing.T) {
	var executed []string
	var orderArgs []any

	tx := &mockTxQuerier{mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			executed = append(executed, sql)
			if strings.Contains(sql, "INSERT INTO orders") {
				orderArgs = arguments
			}
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}}

	repo := NewOrderRepositoryWithPool(&mockPool{})
	order := testOrder()
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 2, UnitPrice: 500},
		{ProductID: "prod_2", Quantity: 1, UnitPrice: 100},
	}

	err := repo.Insert(context.Background(), tx, order, items)

	require.NoError(t, err)
	require.Len(t, executed, 3, "one order insert plus one insert per line item")
	assert.Contains(t, executed[0], "INSERT INTO orders")
	assert.Contains(t, executed[1], "INSERT INTO order_items")
	assert.Equal(t, order.ID, orderArgs[0])
	assert.Equal(t, "order_rzp_123", orderArgs[5])
}

func TestOrderRepository_Insert_DuplicateGatewayOrderID(t *testing.T) {
	tx := &mockTxQuerier{mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		},
	}}

	repo := NewOrderRepositoryWithPool(&mockPool{})
	err := repo.Insert(context.Background(), tx, testOrder(), []model.LineItem{{ProductID: "p", Quantity: 1, UnitPrice: 100}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrOrderExists), "unique violation maps to ErrOrderExists")
}

func TestOrderRepository_GetByGatewayOrderID_Found(t *testing.T) {
	orderID := uuid.New()

	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				*dest[0].(*uuid.UUID) = orderID
				*dest[1].(*string) = "user_001"
				*dest[2].(*int64) = 900
				*dest[3].(**uuid.UUID) = nil
				*dest[4].(*int) = 10
				*dest[5].(*string) = "order_rzp_123"
				*dest[6].(*string) = "pay_rzp_456"
				*dest[7].(*string) = "deadbeef"
				*dest[8].(*string) = model.OrderStatusVerified
				*dest[9].(*time.Time) = time.Now()
				return nil
			}}
		},
	}

	repo := NewOrderRepositoryWithPool(mock)
	order, err := repo.GetByGatewayOrderID(context.Background(), "order_rzp_123")

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, int64(900), order.TotalAmount)
	assert.Equal(t, model.OrderStatusVerified, order.Status)
}

func TestOrderRepository_GetByGatewayOrderID_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	repo := NewOrderRepositoryWithPool(mock)
	order, err := repo.GetByGatewayOrderID(context.Background(), "order_unknown")

	require.NoError(t, err)
	assert.Nil(t, order)
}
