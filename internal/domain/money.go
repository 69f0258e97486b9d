package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency is the ISO 4217 code for all amounts in the registry.
const Currency = "PEN"

// Money is a monetary amount in cents. All registry accounting is done in
// integer cents so totals never accumulate floating point drift.
type Money int64

// NewMoneyFromUnits converts whole currency units to Money.
func NewMoneyFromUnits(units int64) Money {
	return Money(units * 100)
}

// ParseMoney parses a monetary amount from its decimal string form, e.g.
// "1500" or "1500.50". Negative amounts and malformed input are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse money: empty input")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("parse money %q: negative amount", s)
	}

	// Round to the nearest cent to absorb representation error.
	return Money(f*100 + 0.5), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string. The
// backends deliver amounts inconsistently, so coercion happens once here
// and nowhere else.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}

	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalJSON emits the amount as a decimal number of currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.DecimalString()), nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Units returns the amount in whole currency units, truncating cents.
func (m Money) Units() int64 {
	return int64(m) / 100
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// String formats the amount with the sol currency symbol, e.g. "S/ 1500.00".
func (m Money) String() string {
	return "S/ " + m.DecimalString()
}

// DecimalString formats the amount as a plain decimal number of currency
// units, e.g. "600.50". This is the wire form the backends exchange.
func (m Money) DecimalString() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
