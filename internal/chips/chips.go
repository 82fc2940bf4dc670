// Package chips provides exact fixed-point chip amounts measured in big blinds.
//
// Amounts are stored as hundredths of a big blind so that a 0.5 small blind,
// a 2.5 open and pot fractions all stay in integer arithmetic.
package chips

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PerBB is the number of units in one big blind.
const PerBB = 100

// Chips is an amount of chips in 1/100 big blind units.
type Chips int64

var perBB = decimal.NewFromInt(PerBB)

// BB returns n whole big blinds.
func BB(n int64) Chips {
	return Chips(n * PerBB)
}

// FromDecimal converts a big-blind denominated decimal to Chips. Values with
// more precision than one hundredth of a big blind are rejected.
func FromDecimal(d decimal.Decimal) (Chips, error) {
	units := d.Mul(perBB)
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("chips: %s has more precision than 0.01 BB", d.String())
	}
	return Chips(units.IntPart()), nil
}

// FromFloat converts a big-blind float (as decoded from config files) to Chips.
func FromFloat(f float64) (Chips, error) {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse parses a decimal big-blind amount such as "2.5".
func Parse(s string) (Chips, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("chips: invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Chips {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Decimal returns the amount in big blinds.
func (c Chips) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(perBB)
}

// String formats the amount in big blinds without trailing zeros.
func (c Chips) String() string {
	return c.Decimal().String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Chips) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chips) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scale multiplies the amount by m, rounding down to the nearest unit.
func (c Chips) Scale(m decimal.Decimal) Chips {
	return Chips(decimal.NewFromInt(int64(c)).Mul(m).Floor().IntPart())
}

// Min returns the smaller of a and b.
func Min(a, b Chips) Chips {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Chips) Chips {
	if a > b {
		return a
	}
	return b
}
