package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mortgage-qualify/internal/core/domain"
)

// LendingInstitution is the configuration-store row for one institution.
// Percent columns store fractions, not percentage points.
type LendingInstitution struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Code     string `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Alias    string `gorm:"size:60" json:"alias,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	InterestRate            decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"interest_rate"`
	DownPaymentPercent      decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"down_payment_percent"`
	MiscFeePercent          decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"misc_fee_percent"`
	BufferMargin            decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"buffer_margin"`
	IncomeMultiplier        decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"income_multiplier"`
	LoanableValueMultiplier decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"loanable_value_multiplier"`

	ProcessingFee decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"processing_fee"`
	Currency      string          `gorm:"size:3;default:'PHP'" json:"currency"`

	AutoMRI           bool `gorm:"default:false" json:"auto_mri"`
	AutoFireInsurance bool `gorm:"default:false" json:"auto_fire_insurance"`

	BorrowingAgeMinimum int `gorm:"not null" json:"borrowing_age_minimum"`
	BorrowingAgeMaximum int `gorm:"not null" json:"borrowing_age_maximum"`
	BorrowingAgeOffset  int `gorm:"default:0" json:"borrowing_age_offset"`
	MaxTermYears        int `gorm:"not null" json:"max_term_years"`
	MaxPayingAge        int `gorm:"not null" json:"max_paying_age"`

	// Coefficients is the open-ended named coefficient bag as a JSON object.
	Coefficients string `gorm:"type:json" json:"coefficients,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LendingInstitution) TableName() string {
	return "lending_institutions"
}

// ToDomain converts the row into the read-only domain record.
func (m *LendingInstitution) ToDomain() (domain.LendingInstitution, error) {
	mk := func(d decimal.Decimal) domain.Percent {
		p, _ := domain.PercentFromDecimal(d)
		return p
	}
	var coefficients map[string]float64
	if m.Coefficients != "" {
		if err := json.Unmarshal([]byte(m.Coefficients), &coefficients); err != nil {
			return domain.LendingInstitution{}, fmt.Errorf("institution %q coefficients: %w", m.Code, err)
		}
	}
	inst := domain.LendingInstitution{
		Code:                    m.Code,
		Name:                    m.Name,
		Alias:                   m.Alias,
		Active:                  m.IsActive,
		InterestRate:            mk(m.InterestRate),
		DownPaymentPercent:      mk(m.DownPaymentPercent),
		MiscFeePercent:          mk(m.MiscFeePercent),
		BufferMargin:            mk(m.BufferMargin),
		IncomeMultiplier:        mk(m.IncomeMultiplier),
		LoanableValueMultiplier: mk(m.LoanableValueMultiplier),
		ProcessingFee:           domain.NewMoney(m.ProcessingFee, m.Currency),
		AutoMRI:                 m.AutoMRI,
		AutoFireInsurance:       m.AutoFireInsurance,
		BorrowingAgeMinimum:     m.BorrowingAgeMinimum,
		BorrowingAgeMaximum:     m.BorrowingAgeMaximum,
		BorrowingAgeOffset:      m.BorrowingAgeOffset,
		MaxTermYears:            m.MaxTermYears,
		MaxPayingAge:            m.MaxPayingAge,
		Coefficients:            coefficients,
	}
	return inst, inst.Validate()
}

// InstitutionFromDomain converts a catalogue record into a storable row.
func InstitutionFromDomain(inst domain.LendingInstitution) (*LendingInstitution, error) {
	coefficients := "{}"
	if len(inst.Coefficients) > 0 {
		raw, err := json.Marshal(inst.Coefficients)
		if err != nil {
			return nil, fmt.Errorf("institution %q coefficients: %w", inst.Code, err)
		}
		coefficients = string(raw)
	}
	return &LendingInstitution{
		Code:                    inst.Code,
		Name:                    inst.Name,
		Alias:                   inst.Alias,
		IsActive:                inst.Active,
		InterestRate:            inst.InterestRate.Fraction(),
		DownPaymentPercent:      inst.DownPaymentPercent.Fraction(),
		MiscFeePercent:          inst.MiscFeePercent.Fraction(),
		BufferMargin:            inst.BufferMargin.Fraction(),
		IncomeMultiplier:        inst.IncomeMultiplier.Fraction(),
		LoanableValueMultiplier: inst.LoanableValueMultiplier.Fraction(),
		ProcessingFee:           inst.ProcessingFee.Amount(),
		Currency:                inst.ProcessingFee.Currency(),
		AutoMRI:                 inst.AutoMRI,
		AutoFireInsurance:       inst.AutoFireInsurance,
		BorrowingAgeMinimum:     inst.BorrowingAgeMinimum,
		BorrowingAgeMaximum:     inst.BorrowingAgeMaximum,
		BorrowingAgeOffset:      inst.BorrowingAgeOffset,
		MaxTermYears:            inst.MaxTermYears,
		MaxPayingAge:            inst.MaxPayingAge,
		Coefficients:            coefficients,
	}, nil
}

// LoanProfile is the persisted snapshot of one computation: the raw inputs
// for replay, the full result bundle, and the headline figures denormalized
// for querying.
type LoanProfile struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ReferenceCode   string `gorm:"uniqueIndex;size:24;not null" json:"reference_code"`
	InstitutionCode string `gorm:"index;size:20;not null" json:"institution_code"`

	TotalContractPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_contract_price"`
	Currency           string          `gorm:"size:3;default:'PHP'" json:"currency"`

	Inputs      string `gorm:"type:json;not null" json:"-"`
	Computation string `gorm:"type:json;not null" json:"-"`

	Qualified                   bool            `gorm:"index" json:"qualified"`
	RequiredEquity              decimal.Decimal `gorm:"type:decimal(15,2)" json:"required_equity"`
	IncomeGap                   decimal.Decimal `gorm:"type:decimal(15,2)" json:"income_gap"`
	SuggestedDownPaymentPercent decimal.Decimal `gorm:"type:decimal(10,8)" json:"suggested_down_payment_percent"`
	Reason                      string          `gorm:"size:120" json:"reason,omitempty"`

	// A reservation stamps both fields; ReservedUntil is ReservedAt plus the
	// configured window and is the only field the expiry scan filters on.
	ReservedAt    *time.Time `json:"reserved_at,omitempty"`
	ReservedUntil *time.Time `gorm:"index" json:"reserved_until,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanProfile) TableName() string {
	return "loan_profiles"
}

// Result decodes the stored computation bundle.
func (p *LoanProfile) Result() (*domain.MortgageComputationResult, error) {
	var result domain.MortgageComputationResult
	if err := json.Unmarshal([]byte(p.Computation), &result); err != nil {
		return nil, fmt.Errorf("profile %s computation: %w", p.ReferenceCode, err)
	}
	return &result, nil
}

// LoanProfileResponse is the transport DTO for a stored snapshot.
type LoanProfileResponse struct {
	ReferenceCode               string          `json:"reference_code"`
	InstitutionCode             string          `json:"institution_code"`
	TotalContractPrice          decimal.Decimal `json:"total_contract_price"`
	Currency                    string          `json:"currency"`
	Qualified                   bool            `json:"qualified"`
	RequiredEquity              decimal.Decimal `json:"required_equity"`
	IncomeGap                   decimal.Decimal `json:"income_gap"`
	SuggestedDownPaymentPercent decimal.Decimal `json:"suggested_down_payment_percent"`
	Reason                      string          `json:"reason,omitempty"`
	ReservedAt                  *time.Time      `json:"reserved_at,omitempty"`
	ReservedUntil               *time.Time      `json:"reserved_until,omitempty"`
	CreatedAt                   time.Time       `json:"created_at"`

	Computation json.RawMessage `json:"computation,omitempty"`
}

// ToResponse builds the transport DTO. When full is set the complete
// computation bundle rides along.
func (p *LoanProfile) ToResponse(full bool) *LoanProfileResponse {
	resp := &LoanProfileResponse{
		ReferenceCode:               p.ReferenceCode,
		InstitutionCode:             p.InstitutionCode,
		TotalContractPrice:          p.TotalContractPrice,
		Currency:                    p.Currency,
		Qualified:                   p.Qualified,
		RequiredEquity:              p.RequiredEquity,
		IncomeGap:                   p.IncomeGap,
		SuggestedDownPaymentPercent: p.SuggestedDownPaymentPercent,
		Reason:                      p.Reason,
		ReservedAt:                  p.ReservedAt,
		ReservedUntil:               p.ReservedUntil,
		CreatedAt:                   p.CreatedAt,
	}
	if full {
		resp.Computation = json.RawMessage(p.Computation)
	}
	return resp
}

// AutoMigrate creates or updates the tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&LendingInstitution{},
		&LoanProfile{},
	)
}
