package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalcar-backend/internal/domain"
)

func usd(t *testing.T, v string) domain.Money {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	m, err := domain.NewMoney(d, "USD")
	require.NoError(t, err)
	return m
}

func periodOfDays(t *testing.T, days int) domain.RentalPeriod {
	t.Helper()
	start := domain.Today()
	p, err := domain.NewRentalPeriod(start, start.AddDate(0, 0, days-1))
	require.NoError(t, err)
	require.Equal(t, days, p.DurationDays())
	return p
}

func TestTotalCost(t *testing.T) {
	rate := usd(t, "50")

	cases := []struct {
		name string
		days int
		want string
	}{
		{"NoDiscountUnderWeek", 5, "250.00 USD"},
		{"WeeklyDiscountAtSevenDays", 7, "315.00 USD"},
		{"WeeklyDiscountTenDays", 10, "450.00 USD"},
		{"WeeklyDiscountUpperBound", 29, "1305.00 USD"},
		{"MonthlyDiscountAtThirtyDays", 30, "1200.00 USD"},
		{"SingleDay", 1, "50.00 USD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, err := TotalCost(rate, periodOfDays(t, tc.days))
			require.NoError(t, err)
			assert.Equal(t, tc.want, total.String())
		})
	}
}

func TestCostPerDay(t *testing.T) {
	t.Run("EvenSplit", func(t *testing.T) {
		perDay, err := CostPerDay(usd(t, "450"), periodOfDays(t, 10))
		require.NoError(t, err)
		assert.Equal(t, "45.00 USD", perDay.String())
	})

	t.Run("RoundsHalfUp", func(t *testing.T) {
		// 100 / 3 = 33.333..., rounds to 33.33
		perDay, err := CostPerDay(usd(t, "100"), periodOfDays(t, 3))
		require.NoError(t, err)
		assert.Equal(t, "33.33 USD", perDay.String())

		// 100.01 / 2 = 50.005, half-up to 50.01
		perDay, err = CostPerDay(usd(t, "100.01"), periodOfDays(t, 2))
		require.NoError(t, err)
		assert.Equal(t, "50.01 USD", perDay.String())
	})
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 0, DiscountPercentage(1))
	assert.Equal(t, 0, DiscountPercentage(6))
	assert.Equal(t, 10, DiscountPercentage(7))
	assert.Equal(t, 10, DiscountPercentage(29))
	assert.Equal(t, 20, DiscountPercentage(30))
	assert.Equal(t, 20, DiscountPercentage(365))
}
