package engine

import (
	"github.com/shopspring/decimal"

	"mortgage-qualify/internal/core/domain"
)

// FeeTier scales an institution's full miscellaneous-fee rate for contract
// prices up to Ceiling. A nil Ceiling means the tier is unbounded.
type FeeTier struct {
	Ceiling    *decimal.Decimal
	Multiplier decimal.Decimal
}

// FeeRules is the per-institution policy for whether and how much
// miscellaneous fee applies at a given contract-price tier. Rules never
// mutate the institution record; MiscFeeFor is a pure function of its
// arguments.
type FeeRules struct {
	tiers map[string][]FeeTier
	// waiverDownPayment waives the fee outright at or above this down
	// payment.
	waiverDownPayment domain.Percent
}

// NewFeeRules builds a rule set from per-institution tiers.
func NewFeeRules(tiers map[string][]FeeTier, waiverDownPayment domain.Percent) FeeRules {
	return FeeRules{tiers: tiers, waiverDownPayment: waiverDownPayment}
}

// DefaultFeeRules is the shipped policy: HDMF charges the full fee on
// contract prices up to 1,000,000, half above that up to 2,500,000 and none
// beyond; banks charge the full fee at every price. A down payment of 30% or
// more waives the fee everywhere.
func DefaultFeeRules() FeeRules {
	ceil := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	return NewFeeRules(map[string][]FeeTier{
		"hdmf": {
			{Ceiling: ceil(1_000_000), Multiplier: decimal.NewFromInt(1)},
			{Ceiling: ceil(2_500_000), Multiplier: decimal.NewFromFloat(0.5)},
			{Ceiling: nil, Multiplier: decimal.Zero},
		},
	}, domain.MustPercent(0.30))
}

// MiscFeeFor decides whether a miscellaneous fee applies to this contract
// price under this institution's policy and, if so, at what rate. The second
// return is false when no fee applies. Institutions without explicit tiers
// charge their full rate.
func (r FeeRules) MiscFeeFor(tcp domain.Money, inst domain.LendingInstitution, percentDownPayment domain.Percent) (domain.Percent, bool) {
	if inst.MiscFeePercent.IsZero() {
		return domain.ZeroPercent(), false
	}
	if !r.waiverDownPayment.IsZero() && percentDownPayment.Cmp(r.waiverDownPayment) >= 0 {
		return domain.ZeroPercent(), false
	}
	tiers, ok := r.tiers[inst.Code]
	if !ok {
		return inst.MiscFeePercent, true
	}
	for _, tier := range tiers {
		if tier.Ceiling != nil && tcp.Amount().Cmp(*tier.Ceiling) > 0 {
			continue
		}
		if tier.Multiplier.IsZero() {
			return domain.ZeroPercent(), false
		}
		return inst.MiscFeePercent.Scale(tier.Multiplier), true
	}
	return domain.ZeroPercent(), false
}
