package domain

import "fmt"

// BuyerProfile carries the buyer's capacity figures. Money fields are gross
// monthly amounts in the computation currency.
type BuyerProfile struct {
	Age                int     `json:"age"`
	MonthlyGrossIncome Money   `json:"monthly_gross_income"`
	CoBorrowerIncome   Money   `json:"co_borrower_income"`
	MonthlyObligations Money   `json:"monthly_obligations"`
	MaxTermYears       int     `json:"max_term_years,omitempty"`
	InterestRate       *Percent `json:"interest_rate,omitempty"`
}

// PropertyTerms carries the property-side figures. Optional fields override
// the institution defaults when present.
type PropertyTerms struct {
	TotalContractPrice Money    `json:"total_contract_price"`
	AppraisedValue     Money    `json:"appraised_value"`
	InstitutionCode    string   `json:"institution_code"`
	PercentDownPayment *Percent `json:"percent_down_payment,omitempty"`
	PercentLoanable    *Percent `json:"percent_loanable,omitempty"`
	BufferMargin       *Percent `json:"buffer_margin,omitempty"`
	IncomeMultiplier   *Percent `json:"income_multiplier,omitempty"`
	ProcessingFee      *Money   `json:"processing_fee,omitempty"`
}

// OrderAdjustments carries the order-level fee and discount structure.
type OrderAdjustments struct {
	DiscountAmount        Money      `json:"discount_amount"`
	LowCashOutCredit      Money      `json:"low_cash_out_credit"`
	ConsultingFee         Money      `json:"consulting_fee"`
	WaiveProcessingFee    bool       `json:"waive_processing_fee"`
	PercentMiscFee        *Percent   `json:"percent_misc_fee,omitempty"`
	DownPaymentTermMonths int        `json:"down_payment_term_months,omitempty"`
	BalanceTermYears      int        `json:"balance_term_years,omitempty"`
	MonthlyFees           []AddOnFee `json:"monthly_fees,omitempty"`
}

// MortgageInputs is the fully-resolved input of one computation. It is
// constructed once per request and treated as immutable for the duration of
// the computation.
type MortgageInputs struct {
	Buyer    BuyerProfile     `json:"buyer"`
	Property PropertyTerms    `json:"property"`
	Order    OrderAdjustments `json:"order"`
}

// InstitutionCode returns the lending institution the computation resolves
// against.
func (in MortgageInputs) InstitutionCode() string {
	return in.Property.InstitutionCode
}

// Currency returns the computation currency, taken from the contract price.
func (in MortgageInputs) Currency() string {
	return in.Property.TotalContractPrice.Currency()
}

// Validate rejects out-of-domain inputs eagerly, before any computation runs.
// A validation failure is never downgraded into a qualifies=false result.
func (in MortgageInputs) Validate() error {
	tcp := in.Property.TotalContractPrice
	if !tcp.IsPositive() {
		return fmt.Errorf("%w: total contract price must be positive, got %s", ErrInvalidInput, tcp)
	}
	if in.Property.AppraisedValue.IsNegative() {
		return fmt.Errorf("%w: appraised value must not be negative", ErrInvalidInput)
	}
	if in.Property.InstitutionCode == "" {
		return fmt.Errorf("%w: lending institution code is required", ErrInvalidInput)
	}
	if in.Buyer.Age <= 0 {
		return fmt.Errorf("%w: buyer age must be positive, got %d", ErrInvalidInput, in.Buyer.Age)
	}
	if !in.Buyer.MonthlyGrossIncome.IsPositive() {
		return fmt.Errorf("%w: monthly gross income must be positive, got %s",
			ErrInvalidInput, in.Buyer.MonthlyGrossIncome)
	}
	if in.Buyer.CoBorrowerIncome.IsNegative() || in.Buyer.MonthlyObligations.IsNegative() {
		return fmt.Errorf("%w: buyer income figures must not be negative", ErrInvalidInput)
	}
	if in.Buyer.MaxTermYears < 0 {
		return fmt.Errorf("%w: max term must not be negative", ErrInvalidInput)
	}
	if in.Property.PercentDownPayment != nil && in.Property.PercentDownPayment.Value() > 1 {
		return fmt.Errorf("%w: down payment above 100%% of contract price", ErrInvalidInput)
	}
	if in.Order.DownPaymentTermMonths < 0 || in.Order.BalanceTermYears < 0 {
		return fmt.Errorf("%w: payment terms must not be negative", ErrInvalidInput)
	}
	if in.Order.DiscountAmount.IsNegative() || in.Order.LowCashOutCredit.IsNegative() ||
		in.Order.ConsultingFee.IsNegative() {
		return fmt.Errorf("%w: order adjustments must not be negative", ErrInvalidInput)
	}
	for _, f := range in.Order.MonthlyFees {
		if f.Kind == "" {
			return fmt.Errorf("%w: monthly fee kind is required", ErrInvalidInput)
		}
		if f.Amount != nil && f.Amount.IsNegative() {
			return fmt.Errorf("%w: monthly fee %q must not be negative", ErrInvalidInput, f.Kind)
		}
	}
	return in.validateCurrencies()
}

func (in MortgageInputs) validateCurrencies() error {
	currency := in.Currency()
	check := func(name string, m Money) error {
		if !m.IsZero() && m.Currency() != currency {
			return fmt.Errorf("%w: %s is %s, computation currency is %s",
				ErrCurrencyMismatch, name, m.Currency(), currency)
		}
		return nil
	}
	fields := map[string]Money{
		"appraised_value":      in.Property.AppraisedValue,
		"monthly_gross_income": in.Buyer.MonthlyGrossIncome,
		"co_borrower_income":   in.Buyer.CoBorrowerIncome,
		"monthly_obligations":  in.Buyer.MonthlyObligations,
		"discount_amount":      in.Order.DiscountAmount,
		"low_cash_out_credit":  in.Order.LowCashOutCredit,
		"consulting_fee":       in.Order.ConsultingFee,
	}
	if in.Property.ProcessingFee != nil {
		fields["processing_fee"] = *in.Property.ProcessingFee
	}
	for name, m := range fields {
		if err := check(name, m); err != nil {
			return err
		}
	}
	for _, f := range in.Order.MonthlyFees {
		if f.Amount != nil {
			if err := check("monthly_fee "+string(f.Kind), *f.Amount); err != nil {
				return err
			}
		}
	}
	return nil
}
