package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Coefficient names every deployment ships with. The bag is open-ended;
// these are just the keys the monthly fee calculator reads.
const (
	CoeffMRIRate           = "mri_rate"
	CoeffFireInsuranceRate = "fire_insurance_rate"
)

// LendingInstitution is a read-only record of per-institution financial
// parameters. Instances are built once at registry load and never mutated.
type LendingInstitution struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Alias  string `json:"alias,omitempty"`
	Active bool   `json:"active"`

	InterestRate            Percent `json:"interest_rate"`
	DownPaymentPercent      Percent `json:"down_payment_percent"`
	MiscFeePercent          Percent `json:"misc_fee_percent"`
	BufferMargin            Percent `json:"buffer_margin"`
	IncomeMultiplier        Percent `json:"income_multiplier"`
	LoanableValueMultiplier Percent `json:"loanable_value_multiplier"`

	ProcessingFee Money `json:"processing_fee"`

	AutoMRI           bool `json:"auto_mri"`
	AutoFireInsurance bool `json:"auto_fire_insurance"`

	BorrowingAgeMinimum int `json:"borrowing_age_minimum"`
	BorrowingAgeMaximum int `json:"borrowing_age_maximum"`
	BorrowingAgeOffset  int `json:"borrowing_age_offset"`
	MaxTermYears        int `json:"max_term_years"`
	MaxPayingAge        int `json:"max_paying_age"`

	// Coefficients is an open-ended bag of named numeric parameters
	// (insurance rates and the like), looked up with a caller default.
	Coefficients map[string]float64 `json:"coefficients,omitempty"`
}

// Coefficient looks up a named coefficient, falling back to def when the
// institution does not define it.
func (i LendingInstitution) Coefficient(name string, def float64) float64 {
	if v, ok := i.Coefficients[name]; ok {
		return v
	}
	return def
}

// Validate checks the record invariants.
func (i LendingInstitution) Validate() error {
	if i.Code == "" {
		return fmt.Errorf("%w: institution code is required", ErrInvalidValue)
	}
	if i.BorrowingAgeMinimum > i.BorrowingAgeMaximum {
		return fmt.Errorf("%w: institution %q borrowing age minimum %d exceeds maximum %d",
			ErrInvalidValue, i.Code, i.BorrowingAgeMinimum, i.BorrowingAgeMaximum)
	}
	if i.MaxTermYears <= 0 {
		return fmt.Errorf("%w: institution %q max term must be positive", ErrInvalidValue, i.Code)
	}
	if i.MaxPayingAge <= i.BorrowingAgeMinimum {
		return fmt.Errorf("%w: institution %q max paying age %d must exceed borrowing age minimum",
			ErrInvalidValue, i.Code, i.MaxPayingAge)
	}
	return nil
}

// Registry is a keyed catalogue of lending institutions. It is populated once
// at process start and read-only thereafter, so concurrent reads need no
// locking.
type Registry struct {
	byCode map[string]LendingInstitution
}

// NewRegistry validates every record and indexes it by code. Duplicate codes
// are rejected.
func NewRegistry(institutions ...LendingInstitution) (*Registry, error) {
	byCode := make(map[string]LendingInstitution, len(institutions))
	for _, inst := range institutions {
		if err := inst.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byCode[inst.Code]; exists {
			return nil, fmt.Errorf("%w: duplicate institution code %q", ErrInvalidValue, inst.Code)
		}
		byCode[inst.Code] = inst
	}
	return &Registry{byCode: byCode}, nil
}

// Get resolves a code to an institution. Lookup is case-sensitive and fails
// explicitly for unknown codes; there is no silent default.
func (r *Registry) Get(code string) (LendingInstitution, error) {
	inst, ok := r.byCode[code]
	if !ok {
		return LendingInstitution{}, fmt.Errorf("%w: %q", ErrInstitutionNotFound, code)
	}
	return inst, nil
}

// Coefficient resolves a named coefficient for an institution with a fallback
// default. Fails only when the institution itself is unknown.
func (r *Registry) Coefficient(code, name string, def float64) (float64, error) {
	inst, err := r.Get(code)
	if err != nil {
		return 0, err
	}
	return inst.Coefficient(name, def), nil
}

// Codes returns every registered institution code.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	return codes
}

// All returns every registered institution.
func (r *Registry) All() []LendingInstitution {
	out := make([]LendingInstitution, 0, len(r.byCode))
	for _, inst := range r.byCode {
		out = append(out, inst)
	}
	return out
}

// DefaultCatalogue is the static institution set a fresh deployment starts
// with. The seeder copies it into the configuration store at boot; parameter
// changes after that are made in the store, not here.
func DefaultCatalogue() []LendingInstitution {
	return []LendingInstitution{
		{
			Code:                    "hdmf",
			Name:                    "Home Development Mutual Fund",
			Alias:                   "Pag-IBIG",
			Active:                  true,
			InterestRate:            MustPercent(0.0625),
			DownPaymentPercent:      MustPercent(0.10),
			MiscFeePercent:          MustPercent(0.085),
			BufferMargin:            MustPercent(0.05),
			IncomeMultiplier:        MustPercent(0.35),
			LoanableValueMultiplier: MustPercent(0.90),
			ProcessingFee:           NewMoney(decimal.NewFromInt(3000), DefaultCurrency),
			AutoMRI:                 true,
			AutoFireInsurance:       true,
			BorrowingAgeMinimum:     21,
			BorrowingAgeMaximum:     65,
			BorrowingAgeOffset:      0,
			MaxTermYears:            30,
			MaxPayingAge:            70,
			Coefficients: map[string]float64{
				CoeffMRIRate:           0.225,
				CoeffFireInsuranceRate: 0.00212584,
			},
		},
		{
			Code:                    "bpi",
			Name:                    "Bank of the Philippine Islands",
			Active:                  true,
			InterestRate:            MustPercent(0.07),
			DownPaymentPercent:      MustPercent(0.20),
			MiscFeePercent:          MustPercent(0.05),
			BufferMargin:            MustPercent(0.10),
			IncomeMultiplier:        MustPercent(0.30),
			LoanableValueMultiplier: MustPercent(0.80),
			ProcessingFee:           NewMoney(decimal.NewFromInt(5000), DefaultCurrency),
			AutoMRI:                 true,
			AutoFireInsurance:       true,
			BorrowingAgeMinimum:     21,
			BorrowingAgeMaximum:     60,
			BorrowingAgeOffset:      1,
			MaxTermYears:            25,
			MaxPayingAge:            65,
			Coefficients: map[string]float64{
				CoeffMRIRate:           0.25,
				CoeffFireInsuranceRate: 0.0023,
			},
		},
		{
			Code:                    "bdo",
			Name:                    "BDO Unibank",
			Active:                  true,
			InterestRate:            MustPercent(0.0725),
			DownPaymentPercent:      MustPercent(0.20),
			MiscFeePercent:          MustPercent(0.05),
			BufferMargin:            MustPercent(0.10),
			IncomeMultiplier:        MustPercent(0.30),
			LoanableValueMultiplier: MustPercent(0.80),
			ProcessingFee:           NewMoney(decimal.NewFromInt(5500), DefaultCurrency),
			AutoMRI:                 true,
			AutoFireInsurance:       false,
			BorrowingAgeMinimum:     21,
			BorrowingAgeMaximum:     60,
			BorrowingAgeOffset:      1,
			MaxTermYears:            20,
			MaxPayingAge:            65,
			Coefficients: map[string]float64{
				CoeffMRIRate: 0.25,
			},
		},
	}
}
