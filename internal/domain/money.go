package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount in whole currency units.
// All operations return a new value; the zero Money is a valid zero amount.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}

	return Money{amount: amount}, nil
}

func NewMoneyFromInt(amount int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount))
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns the difference, or ErrNegativeAmount when the result would drop
// below zero. Callers are expected to subtract only where the result is known
// to be non-negative.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

// Scale applies a multiplicative rate and rounds the result to whole currency
// units.
func (m Money) Scale(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(0)}
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) String() string {
	return m.amount.String()
}

// Money round-trips through JSON as a decimal string so amounts never lose
// precision in transit.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}

	money, err := NewMoney(amount)
	if err != nil {
		return err
	}

	*m = money

	return nil
}
