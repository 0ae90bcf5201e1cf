package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an amount in minor currency units, e.g. cents.
type Money struct {
	MinorUnits int64
	Currency   currency.Unit
}

func NewMoney(minorUnits int64, cur currency.Unit) Money {
	return Money{MinorUnits: minorUnits, Currency: cur}
}

// Decimal returns the amount in major units using the currency's standard scale.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.MinorUnits, -int32(Scale(m.Currency)))
}

func (m Money) Mul(n int64) Money {
	return Money{MinorUnits: m.MinorUnits * n, Currency: m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Decimal().StringFixed(int32(Scale(m.Currency))))
}

// Scale is the number of fraction digits used by cur, 2 for USD and 0 for JPY.
func Scale(cur currency.Unit) int {
	scale, _ := currency.Standard.Rounding(cur)
	return scale
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseMinorUnits converts a decimal string such as "25.00" into minor units of cur.
// Negative values, values with more precision than the currency allows and values beyond int64 are rejected.
func ParseMinorUnits(value string, cur currency.Unit) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("decimal.NewFromString[%s]: %w", value, err)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("amount[%s] is negative", value)
	}

	minor := d.Shift(int32(Scale(cur)))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount[%s] has more than %d fraction digits", value, Scale(cur))
	}
	if minor.GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("amount[%s] is out of range", value)
	}

	return minor.IntPart(), nil
}
