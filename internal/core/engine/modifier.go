// Package engine implements the mortgage computation and qualification
// pipeline: pure, deterministic transformations from resolved inputs to a
// computation result. Nothing in this package performs I/O or reads ambient
// configuration; every parameter is injected at construction.
package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"mortgage-qualify/internal/core/domain"
)

// Modifier keys, stable for serialization and audit.
const (
	KeyPresentValue         = "present_value"
	KeyDownPaymentDeduction = "down_payment_deduction"
	KeyMiscFeeMarkup        = "misc_fee_markup"
)

type modifierKind int

const (
	kindPresentValue modifierKind = iota
	kindDownPaymentDeduction
	kindMiscFeeMarkup
)

// PriceModifier is one member of the closed set of pure price
// transformations. The set is small and audit-stable, so dispatch is a
// switch on the kind tag rather than an interface.
type PriceModifier struct {
	kind      modifierKind
	rate      domain.Percent
	termYears int
}

// PresentValue converts a flat periodic amount into its present value using
// the standard annuity-discount formula, parameterized by an annual nominal
// rate and a term in years.
func PresentValue(annualRate domain.Percent, termYears int) PriceModifier {
	return PriceModifier{kind: kindPresentValue, rate: annualRate, termYears: termYears}
}

// DownPaymentDeduction scales a base amount by (1 - downPaymentFraction),
// yielding the post-down-payment balance.
func DownPaymentDeduction(downPayment domain.Percent) PriceModifier {
	return PriceModifier{kind: kindDownPaymentDeduction, rate: downPayment}
}

// MiscFeeMarkup scales a base amount by (1 + miscFeeFraction).
func MiscFeeMarkup(miscFee domain.Percent) PriceModifier {
	return PriceModifier{kind: kindMiscFeeMarkup, rate: miscFee}
}

// Key returns the stable serialization key of the modifier.
func (m PriceModifier) Key() string {
	switch m.kind {
	case kindPresentValue:
		return KeyPresentValue
	case kindDownPaymentDeduction:
		return KeyDownPaymentDeduction
	default:
		return KeyMiscFeeMarkup
	}
}

// BeforeTax reports whether the modifier operates on the tax-exclusive base.
// The miscellaneous fee marks up the financed balance tax-inclusive; the
// other modifiers work on the net amount.
func (m PriceModifier) BeforeTax() bool {
	return m.kind != kindMiscFeeMarkup
}

// Attributes returns the parameters the modifier applies with, for the audit
// trail.
func (m PriceModifier) Attributes() map[string]interface{} {
	switch m.kind {
	case kindPresentValue:
		return map[string]interface{}{
			"annual_rate": m.rate.Fraction().String(),
			"term_years":  m.termYears,
		}
	case kindDownPaymentDeduction:
		return map[string]interface{}{"percent_down_payment": m.rate.Fraction().String()}
	default:
		return map[string]interface{}{"percent_misc_fee": m.rate.Fraction().String()}
	}
}

// Audit returns the modifier's audit record.
func (m PriceModifier) Audit() domain.ModifierAudit {
	return domain.ModifierAudit{Key: m.Key(), BeforeTax: m.BeforeTax(), Attributes: m.Attributes()}
}

// Apply transforms the base amount. The result is rounded half-up at the
// currency's minor-unit precision.
func (m PriceModifier) Apply(base domain.Money) (domain.Money, error) {
	switch m.kind {
	case kindPresentValue:
		if m.termYears <= 0 {
			return domain.Money{}, fmt.Errorf("%w: present value needs a positive term, got %d years",
				domain.ErrInvalidInput, m.termYears)
		}
		factor := annuityFactor(monthlyRate(m.rate), m.termYears*12)
		return base.MulFloat(factor), nil
	case kindDownPaymentDeduction:
		return base.Mul(decimal.NewFromInt(1).Sub(m.rate.Fraction())), nil
	default:
		return base.Mul(decimal.NewFromInt(1).Add(m.rate.Fraction())), nil
	}
}

// Pipeline is an ordered chain of modifiers. The owner decides the sequence;
// each modifier is a pure function of its single input.
type Pipeline []PriceModifier

// Apply runs the base amount through every modifier in order.
func (p Pipeline) Apply(base domain.Money) (domain.Money, error) {
	out := base
	for _, m := range p {
		var err error
		out, err = m.Apply(out)
		if err != nil {
			return domain.Money{}, err
		}
	}
	return out, nil
}

// Audit returns the audit trail of the modifiers in their applied order.
func (p Pipeline) Audit() []domain.ModifierAudit {
	trail := make([]domain.ModifierAudit, 0, len(p))
	for _, m := range p {
		trail = append(trail, m.Audit())
	}
	return trail
}

// monthlyRate derives the periodic rate from an annual nominal rate, rounded
// to 15 decimal places to keep repeated computations drift-free.
func monthlyRate(annual domain.Percent) float64 {
	r := annual.Value() / 12
	return math.Round(r*1e15) / 1e15
}

// annuityFactor is (1 - (1+r)^-n) / r, the present value of n periodic unit
// payments at periodic rate r. Near r = 0 the formula degenerates to n (flat
// sum, no discounting) to avoid dividing by a vanishing rate.
func annuityFactor(r float64, n int) float64 {
	if math.Abs(r) < 1e-10 {
		return float64(n)
	}
	return (1 - math.Pow(1+r, -float64(n))) / r
}

// MonthlyAmortization inverts the present-value relation: the flat monthly
// payment amortizing principal over termYears at the given annual rate.
func MonthlyAmortization(principal domain.Money, annualRate domain.Percent, termYears int) (domain.Money, error) {
	if termYears <= 0 {
		return domain.Money{}, fmt.Errorf("%w: amortization needs a positive term, got %d years",
			domain.ErrInvalidInput, termYears)
	}
	factor := annuityFactor(monthlyRate(annualRate), termYears*12)
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return domain.Money{}, fmt.Errorf("%w: annuity factor degenerate for rate %s over %d years",
			domain.ErrComputationFailed, annualRate, termYears)
	}
	return principal.Div(decimal.NewFromFloat(factor)), nil
}
