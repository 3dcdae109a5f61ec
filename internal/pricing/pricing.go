// Package pricing computes rental costs. The functions are pure: same inputs,
// same outputs, no side effects, safe to call repeatedly.
package pricing

import (
	"rentalcar-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	weeklyThreshold  = 7
	monthlyThreshold = 30
)

var (
	weeklyDiscount  = decimal.NewFromFloat(0.10)
	monthlyDiscount = decimal.NewFromFloat(0.20)
)

// TotalCost is dailyRate times the inclusive day count, minus the duration
// discount: none under 7 days, 10% from 7 days, 20% from 30 days.
func TotalCost(dailyRate domain.Money, period domain.RentalPeriod) (domain.Money, error) {
	days := period.DurationDays()
	base := dailyRate.Multiply(decimal.NewFromInt(int64(days)))

	rate := discountRate(days)
	if rate.IsZero() {
		return base, nil
	}
	discount := domain.Money{Amount: base.Amount.Mul(rate), Currency: base.Currency}
	return base.Subtract(discount)
}

// CostPerDay divides the total by the day count, rounding half-up to two
// decimal places for display.
func CostPerDay(totalCost domain.Money, period domain.RentalPeriod) (domain.Money, error) {
	days := decimal.NewFromInt(int64(period.DurationDays()))
	perDay := totalCost.Amount.DivRound(days, 2)
	return domain.NewMoney(perDay, totalCost.Currency)
}

// DiscountPercentage reports the applied discount as a whole percentage.
func DiscountPercentage(days int) int {
	return int(discountRate(days).Mul(decimal.NewFromInt(100)).IntPart())
}

func discountRate(days int) decimal.Decimal {
	switch {
	case days >= monthlyThreshold:
		return monthlyDiscount
	case days >= weeklyThreshold:
		return weeklyDiscount
	default:
		return decimal.Zero
	}
}
