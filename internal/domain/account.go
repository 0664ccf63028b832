package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every stored balance carries.
// All multiplications round back to this scale with banker's rounding before
// the result is compared or persisted.
const MoneyScale = 2

// Account is the balance-bearing record of a single user. Owner doubles as
// the primary key: accounts and users are strictly 1:1 and share an id.
type Account struct {
	Owner          uuid.UUID
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
	Version        int64
}

// RoundMoney normalizes d to MoneyScale using round-half-even.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyScale)
}

// ValidAmount reports whether d can be used as a transfer amount: strictly
// positive and exactly representable at MoneyScale. Trailing zeros beyond
// the scale ("10.100") are fine; significant sub-cent digits are not.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(RoundMoney(d))
}
