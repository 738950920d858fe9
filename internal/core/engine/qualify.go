package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mortgage-qualify/internal/core/domain"
)

// ReasonInsufficientIncome is the reason attached to a not-qualified verdict
// caused by the obligation exceeding disposable income.
const ReasonInsufficientIncome = "insufficient disposable income"

// Engine combines buyer capacity, computed obligations and institution
// limits into a qualification verdict plus remedy. It is stateless apart
// from the read-only registry and fee rules, so one instance serves
// concurrent computations.
type Engine struct {
	registry *domain.Registry
	feeRules FeeRules
}

// New builds an engine over a loaded registry and fee rule set.
func New(registry *domain.Registry, feeRules FeeRules) *Engine {
	return &Engine{registry: registry, feeRules: feeRules}
}

// resolved carries the effective parameters of one computation after
// property/order overrides are applied over institution defaults.
type resolved struct {
	inst             domain.LendingInstitution
	currency         string
	rate             domain.Percent
	downPayment      domain.Percent
	buffer           domain.Percent
	incomeMultiplier domain.Percent
	loanableValue    domain.Percent
	processingFee    domain.Money
	termYears        int
}

// Compute runs one full qualification. It is a pure function of its input:
// identical inputs yield identical results, and a NotQualified verdict is a
// successful computation, never an error.
func (e *Engine) Compute(in domain.MortgageInputs) (*domain.MortgageComputationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	res, err := e.resolve(in)
	if err != nil {
		return nil, err
	}

	currency := res.currency
	tcp := in.Property.TotalContractPrice

	miscPct, miscApplies := e.feeRules.MiscFeeFor(tcp, res.inst, res.downPayment)
	if in.Order.PercentMiscFee != nil {
		miscPct = *in.Order.PercentMiscFee
		miscApplies = !miscPct.IsZero()
	}

	pipeline := Pipeline{DownPaymentDeduction(res.downPayment)}
	if miscApplies {
		pipeline = append(pipeline, MiscFeeMarkup(miscPct))
	}
	loanable, err := pipeline.Apply(tcp)
	if err != nil {
		return nil, err
	}

	// The financed balance is capped at the appraised value times the
	// loanable-value multiplier; the excess shifts into required equity.
	appraisal := in.Property.AppraisedValue.Normalized(currency)
	if appraisal.IsZero() {
		appraisal = tcp
	}
	loanableCap := appraisal.MulPercent(res.loanableValue)
	financed := loanable
	equityShortfall := domain.ZeroMoney(currency)
	if financed.Cmp(loanableCap) > 0 {
		equityShortfall, _ = financed.Sub(loanableCap)
		financed = loanableCap
	}

	amortization, err := MonthlyAmortization(financed, res.rate, res.termYears)
	if err != nil {
		return nil, err
	}

	fees := e.collectMonthlyFees(in, res.inst, tcp)
	addOns := fees.Total(currency)
	obligation, err := amortization.Add(addOns)
	if err != nil {
		return nil, err
	}

	disposable, err := e.disposableIncome(in, res)
	if err != nil {
		return nil, err
	}

	// The comparison is inclusive: an obligation exactly matching
	// disposable income qualifies.
	qualifies := disposable.Cmp(obligation) >= 0
	gap := domain.ZeroMoney(currency)
	reason := ""
	remedy := res.downPayment
	if !qualifies {
		gap, _ = obligation.Sub(disposable)
		reason = ReasonInsufficientIncome
		remedy = e.downPaymentRemedy(tcp, disposable, addOns, miscPct, miscApplies, res)
	}

	downPaymentAmount := tcp.MulPercent(res.downPayment)
	requiredEquity, err := downPaymentAmount.Add(equityShortfall)
	if err != nil {
		return nil, err
	}
	cashOut, err := e.cashOut(in, downPaymentAmount, res.processingFee)
	if err != nil {
		return nil, err
	}

	equityMonthly := domain.ZeroMoney(currency)
	if months := in.Order.DownPaymentTermMonths; months > 0 {
		equityMonthly = requiredEquity.Div(decimal.NewFromInt(int64(months)))
	}

	return &domain.MortgageComputationResult{
		InstitutionCode:           res.inst.Code,
		TotalContractPrice:        tcp,
		PresentValue:              financed,
		MonthlyAmortization:       amortization,
		MonthlyAddOnFees:          fees.Map(),
		TotalMonthlyObligation:    obligation,
		MonthlyDisposableIncome:   disposable,
		RequiredEquity:            requiredEquity,
		CashOut:                   cashOut,
		EquityMonthlyAmortization: equityMonthly,
		EffectiveInterestRate:     res.rate,
		EffectiveDownPayment:      res.downPayment,
		MiscFeePercent:            miscPct,
		EffectiveTermYears:        res.termYears,
		Qualifies:                 qualifies,
		Reason:                    reason,
		IncomeGap:                 gap,
		PercentDownPaymentRemedy:  remedy,
		Modifiers:                 pipeline.Audit(),
	}, nil
}

// resolve applies property and order overrides over institution defaults and
// derives the effective loan term, capped so the loan is fully paid before
// the institution's maximum paying age. The term is shortened, not rejected.
func (e *Engine) resolve(in domain.MortgageInputs) (resolved, error) {
	inst, err := e.registry.Get(in.InstitutionCode())
	if err != nil {
		return resolved{}, err
	}
	if !inst.Active {
		return resolved{}, fmt.Errorf("%w: institution %q is inactive", domain.ErrInvalidInput, inst.Code)
	}

	age := in.Buyer.Age + inst.BorrowingAgeOffset
	if age < inst.BorrowingAgeMinimum || age > inst.BorrowingAgeMaximum {
		return resolved{}, fmt.Errorf("%w: buyer age %d outside institution bounds [%d, %d]",
			domain.ErrInvalidInput, in.Buyer.Age, inst.BorrowingAgeMinimum, inst.BorrowingAgeMaximum)
	}

	term := inst.MaxTermYears
	if in.Buyer.MaxTermYears > 0 && in.Buyer.MaxTermYears < term {
		term = in.Buyer.MaxTermYears
	}
	if in.Order.BalanceTermYears > 0 && in.Order.BalanceTermYears < term {
		term = in.Order.BalanceTermYears
	}
	if byAge := inst.MaxPayingAge - age; byAge < term {
		term = byAge
	}
	if term <= 0 {
		return resolved{}, fmt.Errorf("%w: no loan term available before maximum paying age %d",
			domain.ErrInvalidInput, inst.MaxPayingAge)
	}

	res := resolved{
		inst:             inst,
		currency:         in.Currency(),
		rate:             inst.InterestRate,
		downPayment:      inst.DownPaymentPercent,
		buffer:           inst.BufferMargin,
		incomeMultiplier: inst.IncomeMultiplier,
		loanableValue:    inst.LoanableValueMultiplier,
		processingFee:    inst.ProcessingFee.Normalized(in.Currency()),
		termYears:        term,
	}
	if in.Buyer.InterestRate != nil {
		res.rate = *in.Buyer.InterestRate
	}
	if p := in.Property.PercentDownPayment; p != nil {
		res.downPayment = *p
	}
	if p := in.Property.BufferMargin; p != nil {
		res.buffer = *p
	}
	if p := in.Property.IncomeMultiplier; p != nil {
		res.incomeMultiplier = *p
	}
	if p := in.Property.PercentLoanable; p != nil {
		res.loanableValue = *p
	}
	if f := in.Property.ProcessingFee; f != nil {
		res.processingFee = *f
	}
	if in.Order.WaiveProcessingFee {
		res.processingFee = domain.ZeroMoney(in.Currency())
	}
	return res, nil
}

// collectMonthlyFees assembles the named add-on collection: the
// institution's auto-added insurance first, then the order's explicit
// instructions, which can disable a kind, pin an amount, or add new kinds.
func (e *Engine) collectMonthlyFees(in domain.MortgageInputs, inst domain.LendingInstitution, tcp domain.Money) *MonthlyFees {
	fees := NewMonthlyFees()
	if inst.AutoMRI {
		fees.Set(domain.MonthlyFeeMRI, MRIMonthly(tcp, inst))
	}
	if inst.AutoFireInsurance {
		fees.Set(domain.MonthlyFeeFireInsurance, FireInsuranceMonthly(tcp, inst))
	}
	for _, f := range in.Order.MonthlyFees {
		if !f.Enabled {
			fees.Delete(f.Kind)
			continue
		}
		if f.Amount != nil {
			fees.Set(f.Kind, *f.Amount)
			continue
		}
		fees.Set(f.Kind, ComputeMonthlyFee(f.Kind, tcp, inst))
	}
	return fees
}

// disposableIncome is the fraction of joint gross income assumed available
// for housing debt, after the underwriting buffer, minus existing monthly
// obligations. It may go negative; the qualification comparison handles that.
func (e *Engine) disposableIncome(in domain.MortgageInputs, res resolved) (domain.Money, error) {
	joint, err := in.Buyer.MonthlyGrossIncome.Add(in.Buyer.CoBorrowerIncome.Normalized(res.currency))
	if err != nil {
		return domain.Money{}, err
	}
	disposable := joint.MulPercent(res.incomeMultiplier)
	if !res.buffer.IsZero() {
		disposable = disposable.Mul(decimal.NewFromInt(1).Sub(res.buffer.Fraction()))
	}
	return disposable.Sub(in.Buyer.MonthlyObligations.Normalized(res.currency))
}

// downPaymentRemedy inverts the present-value relation for the largest
// affordable principal and derives the down payment percentage that would
// bring the obligation back within disposable income, clamped to [0, 1].
func (e *Engine) downPaymentRemedy(tcp, disposable, addOns domain.Money, miscPct domain.Percent, miscApplies bool, res resolved) domain.Percent {
	affordablePayment, err := disposable.Sub(addOns)
	if err != nil || !affordablePayment.IsPositive() {
		return domain.MustPercent(1)
	}
	affordablePrincipal, err := PresentValue(res.rate, res.termYears).Apply(affordablePayment)
	if err != nil {
		return domain.MustPercent(1)
	}
	affordableBase := affordablePrincipal
	if miscApplies {
		affordableBase = affordablePrincipal.Div(decimal.NewFromInt(1).Add(miscPct.Fraction()))
	}
	fraction := decimal.NewFromInt(1).Sub(affordableBase.Amount().Div(tcp.Amount()))
	if fraction.IsNegative() {
		fraction = decimal.Zero
	}
	if fraction.Cmp(decimal.NewFromInt(1)) > 0 {
		fraction = decimal.NewFromInt(1)
	}
	remedy, err := domain.PercentFromDecimal(fraction.Round(6))
	if err != nil {
		return domain.MustPercent(1)
	}
	return remedy
}

// cashOut is the upfront amount the buyer brings: down payment plus
// processing and consulting fees, less discounts and low-cash-out credit,
// floored at zero.
func (e *Engine) cashOut(in domain.MortgageInputs, downPayment, processingFee domain.Money) (domain.Money, error) {
	currency := in.Currency()
	out, err := downPayment.Add(processingFee)
	if err != nil {
		return domain.Money{}, err
	}
	if out, err = out.Add(in.Order.ConsultingFee.Normalized(currency)); err != nil {
		return domain.Money{}, err
	}
	if out, err = out.Sub(in.Order.DiscountAmount.Normalized(currency)); err != nil {
		return domain.Money{}, err
	}
	if out, err = out.Sub(in.Order.LowCashOutCredit.Normalized(currency)); err != nil {
		return domain.Money{}, err
	}
	return out.FloorZero(), nil
}
