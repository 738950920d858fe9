package domain

// ModifierAudit records that one price modifier ran, with the parameters it
// used. The trail is serialized with the result for audit of which
// transformations produced the financed amount.
type ModifierAudit struct {
	Key        string                 `json:"key"`
	BeforeTax  bool                   `json:"before_tax"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// MortgageComputationResult is the immutable output bundle of one
// computation. It is the unit persisted as a loan profile snapshot and
// transmitted to callers. Identical inputs always produce an identical
// bundle.
type MortgageComputationResult struct {
	InstitutionCode    string `json:"institution_code"`
	TotalContractPrice Money  `json:"total_contract_price"`

	// PresentValue is the financed balance after down payment, fee markup
	// and the loanable-value cap.
	PresentValue        Money `json:"present_value"`
	MonthlyAmortization Money `json:"monthly_amortization"`

	MonthlyAddOnFees       map[MonthlyFeeKind]Money `json:"monthly_add_on_fees,omitempty"`
	TotalMonthlyObligation Money                    `json:"total_monthly_obligation"`

	MonthlyDisposableIncome Money `json:"monthly_disposable_income"`
	RequiredEquity          Money `json:"required_equity"`
	CashOut                 Money `json:"cash_out"`
	// EquityMonthlyAmortization is set when the order spreads the required
	// equity over a down-payment term.
	EquityMonthlyAmortization Money `json:"equity_monthly_amortization"`

	EffectiveInterestRate Percent `json:"effective_interest_rate"`
	EffectiveDownPayment  Percent `json:"effective_down_payment"`
	MiscFeePercent        Percent `json:"misc_fee_percent"`
	EffectiveTermYears    int     `json:"effective_term_years"`

	Qualifies bool   `json:"qualifies"`
	Reason    string `json:"reason,omitempty"`
	// IncomeGap is zero on the qualified path, otherwise the shortfall
	// between the obligation and disposable income.
	IncomeGap Money `json:"income_gap"`
	// PercentDownPaymentRemedy is the down payment percentage that would
	// make the loan qualify; on the qualified path it equals the effective
	// down payment already in use.
	PercentDownPaymentRemedy Percent `json:"percent_down_payment_remedy"`

	Modifiers []ModifierAudit `json:"modifiers,omitempty"`
}
