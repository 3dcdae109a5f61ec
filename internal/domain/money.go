package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single ISO 4217 currency. Two Money
// values with the same amount and currency are equal; there is no identity.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, NewValidationError("money amount cannot be negative: %s", amount)
	}
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, NewValidationError("cannot add %s to %s: currency mismatch", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, NewValidationError("cannot subtract %s from %s: currency mismatch", other.Currency, m.Currency)
	}
	return NewMoney(m.Amount.Sub(other.Amount), m.Currency)
}

func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, NewValidationError("cannot compare %s with %s: currency mismatch", m.Currency, other.Currency)
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String renders the amount with two decimal places, e.g. "315.00 USD".
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return NewValidationError("invalid currency code: %q", currency)
	}
	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return NewValidationError("invalid currency code: %q", currency)
		}
	}
	return nil
}
