package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Percent is an exact fractional percentage. The internal representation is
// always the fraction (0.0625 means 6.25%), regardless of which constructor
// produced it. The type does not clamp: fractions above 1 are legal for
// special fee structures, negatives are not.
type Percent struct {
	fraction decimal.Decimal
}

// PercentFromFraction builds a Percent from a fraction, e.g. 0.0625 for 6.25%.
func PercentFromFraction(f float64) (Percent, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Percent{}, fmt.Errorf("%w: percent fraction must be finite", ErrInvalidValue)
	}
	if f < 0 {
		return Percent{}, fmt.Errorf("%w: percent fraction must not be negative, got %v", ErrInvalidValue, f)
	}
	return Percent{fraction: decimal.NewFromFloat(f)}, nil
}

// PercentFromPoints builds a Percent from percentage points, e.g. 6.25 for 6.25%.
func PercentFromPoints(p float64) (Percent, error) {
	pc, err := PercentFromFraction(p)
	if err != nil {
		return Percent{}, err
	}
	return Percent{fraction: pc.fraction.Div(decimal.NewFromInt(100))}, nil
}

// PercentFromDecimal builds a Percent from an already-exact fraction.
func PercentFromDecimal(d decimal.Decimal) (Percent, error) {
	if d.IsNegative() {
		return Percent{}, fmt.Errorf("%w: percent fraction must not be negative, got %s", ErrInvalidValue, d)
	}
	return Percent{fraction: d}, nil
}

// MustPercent builds a Percent from a fraction and panics on an invalid value.
// Reserved for static catalogue definitions and literals in tests.
func MustPercent(f float64) Percent {
	p, err := PercentFromFraction(f)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent is the 0% value.
func ZeroPercent() Percent {
	return Percent{fraction: decimal.Zero}
}

// Value returns the fraction as a float64.
func (p Percent) Value() float64 {
	f, _ := p.fraction.Float64()
	return f
}

// Fraction returns the exact fraction.
func (p Percent) Fraction() decimal.Decimal {
	return p.fraction
}

// Points returns the value in percentage points (6.25 for a 0.0625 fraction).
func (p Percent) Points() decimal.Decimal {
	return p.fraction.Mul(decimal.NewFromInt(100))
}

// Scale multiplies the fraction by a non-negative factor. Used by fee rules
// to derive tier-scaled rates from an institution's full rate.
func (p Percent) Scale(factor decimal.Decimal) Percent {
	if factor.IsNegative() {
		return ZeroPercent()
	}
	return Percent{fraction: p.fraction.Mul(factor)}
}

func (p Percent) IsZero() bool {
	return p.fraction.IsZero()
}

// Cmp compares by fraction: -1 if p < o, 0 if equal, +1 if p > o.
func (p Percent) Cmp(o Percent) int {
	return p.fraction.Cmp(o.fraction)
}

func (p Percent) Equal(o Percent) bool {
	return p.fraction.Equal(o.fraction)
}

func (p Percent) String() string {
	return p.Points().String() + "%"
}

// MarshalJSON encodes the fraction as a bare JSON number.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.fraction.String()), nil
}

// UnmarshalJSON accepts either a number or a quoted number, always as a fraction.
func (p *Percent) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%w: %q is not a percent fraction", ErrInvalidValue, s)
	}
	parsed, err := PercentFromDecimal(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
