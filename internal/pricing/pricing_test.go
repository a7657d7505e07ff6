package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
)

func TestPrice_NoDiscount(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 2, UnitPrice: 500},
		{ProductID: "prod_2", Quantity: 1, UnitPrice: 2500},
	}

	quote, err := Price(items, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(3500), quote.Subtotal)
	assert.Equal(t, int64(0), quote.Discount)
	assert.Equal(t, int64(3500), quote.Total)
}

func TestPrice_WithDiscount(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 2, UnitPrice: 500},
	}

	quote, err := Price(items, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1000), quote.Subtotal)
	assert.Equal(t, int64(100), quote.Discount)
	assert.Equal(t, int64(900), quote.Total)
	assert.Equal(t, 10, quote.DiscountPercentage)
}

func TestPrice_DiscountFloors(t *testing.T) {
	// 3 * 333 = 999; 10% of 999 is 99.9 which must floor to 99.
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 3, UnitPrice: 333},
	}

	quote, err := Price(items, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(99), quote.Discount)
	assert.Equal(t, int64(900), quote.Total)
}

func TestPrice_FullDiscount(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 1, UnitPrice: 1000},
	}

	quote, err := Price(items, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Total)
}

func TestPrice_ZeroPriceItem(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_free", Quantity: 5, UnitPrice: 0},
	}

	quote, err := Price(items, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Total)
}

func TestPrice_EmptyCart(t *testing.T) {
	quote, err := Price(nil, 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCart))
	assert.Nil(t, quote)
}

func TestPrice_MalformedItems(t *testing.T) {
	cases := []struct {
		name  string
		items []model.LineItem
	}{
		{"zero quantity", []model.LineItem{{ProductID: "p", Quantity: 0, UnitPrice: 100}}},
		{"negative quantity", []model.LineItem{{ProductID: "p", Quantity: -1, UnitPrice: 100}}},
		{"negative price", []model.LineItem{{ProductID: "p", Quantity: 1, UnitPrice: -5}}},
		{"missing product id", []model.LineItem{{ProductID: "", Quantity: 1, UnitPrice: 100}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Price(tc.items, 0)
			assert.True(t, errors.Is(err, ErrInvalidCart))
		})
	}
}

func TestPrice_DiscountOutOfRange(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 1, UnitPrice: 100},
	}

	_, err := Price(items, -1)
	assert.True(t, errors.Is(err, ErrInvalidCart))

	_, err = Price(items, 101)
	assert.True(t, errors.Is(err, ErrInvalidCart))
}

func TestPrice_SameInputsSameTotal(t *testing.T) {
	items := []model.LineItem{
		{ProductID: "prod_1", Quantity: 7, UnitPrice: 1299},
		{ProductID: "prod_2", Quantity: 3, UnitPrice: 451},
	}

	first, err := Price(items, 15)
	require.NoError(t, err)
	second, err := Price(items, 15)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total, "repricing the same snapshot must be deterministic")
}
