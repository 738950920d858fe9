package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a caller does not name one.
const DefaultCurrency = "PHP"

var one = decimal.NewFromInt(1)

// minorUnits returns the number of decimal places of a currency's minor unit.
func minorUnits(currency string) int32 {
	switch currency {
	case "JPY", "KRW":
		return 0
	default:
		return 2
	}
}

// Money is an immutable fixed-point monetary amount. The stored amount is
// always tax-exclusive; the optional tax rate is applied only by the
// formatting/extraction operations. Every arithmetic operation returns a new
// instance rounded half-up at the currency's minor-unit precision.
type Money struct {
	amount   decimal.Decimal
	currency string
	taxRate  Percent
}

// NewMoney builds a Money from an exact decimal amount.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: roundHalfUp(amount, currency), currency: currency}
}

// MoneyFromFloat builds a Money from a float64 amount. Non-finite amounts fail.
func MoneyFromFloat(v float64, currency string) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}, fmt.Errorf("%w: money amount must be finite", ErrInvalidValue)
	}
	return NewMoney(decimal.NewFromFloat(v), currency), nil
}

// ZeroMoney is the zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// roundHalfUp rounds at the currency's minor unit. decimal.Round rounds half
// away from zero, which is half-up for the non-negative amounts this domain
// deals in.
func roundHalfUp(d decimal.Decimal, currency string) decimal.Decimal {
	return d.Round(minorUnits(currency))
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) TaxRate() Percent        { return m.taxRate }

// WithTaxRate returns a copy carrying the given tax rate. The stored amount
// stays tax-exclusive.
func (m Money) WithTaxRate(rate Percent) Money {
	m.taxRate = rate
	return m
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}

// Add returns m + o. The currencies must match.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(o.amount), m.currency), nil
}

// Sub returns m - o. The currencies must match.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(o.amount), m.currency), nil
}

// Mul returns m scaled by an exact decimal factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// MulFloat returns m scaled by a float factor.
func (m Money) MulFloat(factor float64) Money {
	return m.Mul(decimal.NewFromFloat(factor))
}

// MulPercent returns amount × fraction, rounded half-up at currency precision.
func (m Money) MulPercent(p Percent) Money {
	return m.Mul(p.Fraction())
}

// Div returns m divided by a non-zero exact decimal.
func (m Money) Div(divisor decimal.Decimal) Money {
	return NewMoney(m.amount.Div(divisor), m.currency)
}

// Cmp compares amounts: -1 if m < o, 0 if equal, +1 if m > o. Currency
// uniformity is the caller's responsibility (enforced at input validation).
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Normalized gives a zero-value Money the computation currency so that
// optional inputs left at their zero value participate in arithmetic.
func (m Money) Normalized(currency string) Money {
	if m.currency == "" {
		return ZeroMoney(currency)
	}
	return m
}

// FloorZero clamps a negative amount to zero.
func (m Money) FloorZero() Money {
	if m.amount.IsNegative() {
		return ZeroMoney(m.currency)
	}
	return m
}

// GrossAmount applies the optional tax rate on top of the stored net amount.
// This is a formatting-time operation; storage stays tax-exclusive.
func (m Money) GrossAmount() decimal.Decimal {
	if m.taxRate.IsZero() {
		return m.amount
	}
	return roundHalfUp(m.amount.Mul(one.Add(m.taxRate.Fraction())), m.currency)
}

// Format renders the gross amount with its currency code for display.
func (m Money) Format() string {
	return m.currency + " " + m.GrossAmount().StringFixed(minorUnits(m.currency))
}

func (m Money) String() string {
	return m.currency + " " + m.amount.StringFixed(minorUnits(m.currency))
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	TaxRate  *Percent        `json:"tax_rate,omitempty"`
}

// MarshalJSON encodes the tax-exclusive amount, the currency and, when set,
// the tax rate.
func (m Money) MarshalJSON() ([]byte, error) {
	out := moneyJSON{Amount: m.amount, Currency: m.currency}
	if !m.taxRate.IsZero() {
		rate := m.taxRate
		out.TaxRate = &rate
	}
	return json.Marshal(out)
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var in moneyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	parsed := NewMoney(in.Amount, in.Currency)
	if in.TaxRate != nil {
		parsed = parsed.WithTaxRate(*in.TaxRate)
	}
	*m = parsed
	return nil
}
