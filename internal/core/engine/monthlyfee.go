package engine

import (
	"github.com/shopspring/decimal"

	"mortgage-qualify/internal/core/domain"
)

// Default coefficients used when an institution does not define its own.
const (
	defaultMRIRate           = 0.225
	defaultFireInsuranceRate = 0.00212584
)

var (
	thousand = decimal.NewFromInt(1000)
	twelve   = decimal.NewFromInt(12)
)

// MRIMonthly computes the monthly mortgage redemption insurance premium:
// (tcp / 1000) × mri_rate.
func MRIMonthly(tcp domain.Money, inst domain.LendingInstitution) domain.Money {
	rate := inst.Coefficient(domain.CoeffMRIRate, defaultMRIRate)
	return tcp.Div(thousand).MulFloat(rate)
}

// FireInsuranceMonthly computes the monthly share of the annual fire
// insurance premium: (tcp × fire_insurance_rate) / 12.
func FireInsuranceMonthly(tcp domain.Money, inst domain.LendingInstitution) domain.Money {
	rate := inst.Coefficient(domain.CoeffFireInsuranceRate, defaultFireInsuranceRate)
	return tcp.MulFloat(rate).Div(twelve)
}

// ComputeMonthlyFee computes the amount for a fee kind from the contract
// price and the institution's coefficients. Unknown kinds and the "other"
// placeholder yield zero; callers pin explicit amounts for those.
func ComputeMonthlyFee(kind domain.MonthlyFeeKind, tcp domain.Money, inst domain.LendingInstitution) domain.Money {
	switch kind {
	case domain.MonthlyFeeMRI:
		return MRIMonthly(tcp, inst)
	case domain.MonthlyFeeFireInsurance:
		return FireInsuranceMonthly(tcp, inst)
	default:
		return domain.ZeroMoney(tcp.Currency())
	}
}

// MonthlyFees is the named collection of recurring add-on charges for one
// computation. Lookups are by fee kind; setting a kind twice overwrites, it
// never accumulates.
type MonthlyFees struct {
	fees map[domain.MonthlyFeeKind]domain.Money
}

func NewMonthlyFees() *MonthlyFees {
	return &MonthlyFees{fees: make(map[domain.MonthlyFeeKind]domain.Money)}
}

func (f *MonthlyFees) Set(kind domain.MonthlyFeeKind, amount domain.Money) {
	f.fees[kind] = amount
}

func (f *MonthlyFees) Delete(kind domain.MonthlyFeeKind) {
	delete(f.fees, kind)
}

func (f *MonthlyFees) Get(kind domain.MonthlyFeeKind) (domain.Money, bool) {
	m, ok := f.fees[kind]
	return m, ok
}

func (f *MonthlyFees) Len() int {
	return len(f.fees)
}

// Total sums every fee in the collection.
func (f *MonthlyFees) Total(currency string) domain.Money {
	total := domain.ZeroMoney(currency)
	for _, amount := range f.fees {
		total, _ = total.Add(amount.Normalized(currency))
	}
	return total
}

// Map returns a copy of the collection for embedding in a result bundle.
func (f *MonthlyFees) Map() map[domain.MonthlyFeeKind]domain.Money {
	if len(f.fees) == 0 {
		return nil
	}
	out := make(map[domain.MonthlyFeeKind]domain.Money, len(f.fees))
	for k, v := range f.fees {
		out[k] = v
	}
	return out
}
