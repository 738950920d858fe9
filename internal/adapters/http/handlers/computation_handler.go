package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"mortgage-qualify/internal/core/domain"
	"mortgage-qualify/internal/core/services"
	"mortgage-qualify/internal/pkg/pagination"
	"mortgage-qualify/internal/pkg/response"
)

// ComputationHandler exposes the computation endpoints.
type ComputationHandler struct {
	computations    *services.ComputationService
	defaultCurrency string
}

// NewComputationHandler creates a new computation handler.
func NewComputationHandler(computations *services.ComputationService, defaultCurrency string) *ComputationHandler {
	return &ComputationHandler{computations: computations, defaultCurrency: defaultCurrency}
}

// BuyerRequest is the buyer-side payload.
type BuyerRequest struct {
	Age                int      `json:"age"`
	MonthlyGrossIncome float64  `json:"monthly_gross_income"`
	CoBorrowerIncome   float64  `json:"co_borrower_income,omitempty"`
	MonthlyObligations float64  `json:"monthly_obligations,omitempty"`
	MaxTermYears       int      `json:"max_term_years,omitempty"`
	InterestRate       *float64 `json:"interest_rate,omitempty"`
}

// MonthlyFeeRequest toggles or pins one named monthly add-on fee.
type MonthlyFeeRequest struct {
	Kind    string   `json:"kind"`
	Amount  *float64 `json:"amount,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// ComputationRequest is the full computation payload. All percent_* fields
// are percentage points (20 means 20%); interest_rate likewise.
type ComputationRequest struct {
	InstitutionCode    string  `json:"institution_code"`
	Currency           string  `json:"currency,omitempty"`
	TotalContractPrice float64 `json:"total_contract_price"`
	AppraisedValue     float64 `json:"appraised_value,omitempty"`

	Buyer BuyerRequest `json:"buyer"`

	PercentDownPayment *float64 `json:"percent_down_payment,omitempty"`
	PercentLoanable    *float64 `json:"percent_loanable,omitempty"`
	PercentMiscFee     *float64 `json:"percent_misc_fee,omitempty"`
	BufferMargin       *float64 `json:"buffer_margin,omitempty"`
	IncomeMultiplier   *float64 `json:"income_multiplier,omitempty"`
	ProcessingFee      *float64 `json:"processing_fee,omitempty"`

	DiscountAmount        float64             `json:"discount_amount,omitempty"`
	LowCashOutCredit      float64             `json:"low_cash_out_credit,omitempty"`
	ConsultingFee         float64             `json:"consulting_fee,omitempty"`
	WaiveProcessingFee    bool                `json:"waive_processing_fee,omitempty"`
	DownPaymentTermMonths int                 `json:"down_payment_term_months,omitempty"`
	BalanceTermYears      int                 `json:"balance_term_years,omitempty"`
	MonthlyFees           []MonthlyFeeRequest `json:"monthly_fees,omitempty"`
}

func (req *ComputationRequest) toInputs(defaultCurrency string) (domain.MortgageInputs, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	money := func(name string, v float64) (domain.Money, error) {
		m, err := domain.MoneyFromFloat(v, currency)
		if err != nil {
			return domain.Money{}, fmt.Errorf("%s: %w", name, err)
		}
		return m, nil
	}
	points := func(name string, v *float64) (*domain.Percent, error) {
		if v == nil {
			return nil, nil
		}
		p, err := domain.PercentFromPoints(*v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &p, nil
	}

	var in domain.MortgageInputs
	var err error

	if in.Property.TotalContractPrice, err = money("total_contract_price", req.TotalContractPrice); err != nil {
		return in, err
	}
	if in.Property.AppraisedValue, err = money("appraised_value", req.AppraisedValue); err != nil {
		return in, err
	}
	in.Property.InstitutionCode = req.InstitutionCode

	if in.Buyer.MonthlyGrossIncome, err = money("monthly_gross_income", req.Buyer.MonthlyGrossIncome); err != nil {
		return in, err
	}
	if in.Buyer.CoBorrowerIncome, err = money("co_borrower_income", req.Buyer.CoBorrowerIncome); err != nil {
		return in, err
	}
	if in.Buyer.MonthlyObligations, err = money("monthly_obligations", req.Buyer.MonthlyObligations); err != nil {
		return in, err
	}
	in.Buyer.Age = req.Buyer.Age
	in.Buyer.MaxTermYears = req.Buyer.MaxTermYears
	if in.Buyer.InterestRate, err = points("interest_rate", req.Buyer.InterestRate); err != nil {
		return in, err
	}

	if in.Property.PercentDownPayment, err = points("percent_down_payment", req.PercentDownPayment); err != nil {
		return in, err
	}
	if in.Property.PercentLoanable, err = points("percent_loanable", req.PercentLoanable); err != nil {
		return in, err
	}
	if in.Property.BufferMargin, err = points("buffer_margin", req.BufferMargin); err != nil {
		return in, err
	}
	if in.Property.IncomeMultiplier, err = points("income_multiplier", req.IncomeMultiplier); err != nil {
		return in, err
	}
	if req.ProcessingFee != nil {
		fee, err := money("processing_fee", *req.ProcessingFee)
		if err != nil {
			return in, err
		}
		in.Property.ProcessingFee = &fee
	}

	if in.Order.DiscountAmount, err = money("discount_amount", req.DiscountAmount); err != nil {
		return in, err
	}
	if in.Order.LowCashOutCredit, err = money("low_cash_out_credit", req.LowCashOutCredit); err != nil {
		return in, err
	}
	if in.Order.ConsultingFee, err = money("consulting_fee", req.ConsultingFee); err != nil {
		return in, err
	}
	in.Order.WaiveProcessingFee = req.WaiveProcessingFee
	in.Order.DownPaymentTermMonths = req.DownPaymentTermMonths
	in.Order.BalanceTermYears = req.BalanceTermYears
	if in.Order.PercentMiscFee, err = points("percent_misc_fee", req.PercentMiscFee); err != nil {
		return in, err
	}

	for _, f := range req.MonthlyFees {
		fee := domain.AddOnFee{Kind: domain.MonthlyFeeKind(f.Kind), Enabled: true}
		if f.Enabled != nil {
			fee.Enabled = *f.Enabled
		}
		if f.Amount != nil {
			amount, err := money("monthly_fee "+f.Kind, *f.Amount)
			if err != nil {
				return in, err
			}
			fee.Amount = &amount
		}
		in.Order.MonthlyFees = append(in.Order.MonthlyFees, fee)
	}

	return in, nil
}

// Compute runs a qualification computation and stores its snapshot.
func (h *ComputationHandler) Compute(c *fiber.Ctx) error {
	var req ComputationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	inputs, err := req.toInputs(h.defaultCurrency)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	out, err := h.computations.Compute(c.Context(), inputs)
	if err != nil {
		return response.FromDomainError(c, err)
	}

	return response.Created(c, "Computation stored", out)
}

// Get fetches a stored snapshot by reference code.
func (h *ComputationHandler) Get(c *fiber.Ctx) error {
	profile, err := h.computations.GetByReferenceCode(c.Context(), c.Params("ref"))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "", fiber.Map{
		"profile": profile.ToResponse(true),
	})
}

// List lists stored snapshots with pagination.
func (h *ComputationHandler) List(c *fiber.Ctx) error {
	params := pagination.FromRequest(c)

	profiles, total, err := h.computations.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.FromDomainError(c, err)
	}

	items := make([]interface{}, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, p.ToResponse(false))
	}
	return response.Success(c, "", fiber.Map{
		"profiles": items,
		"meta":     pagination.NewMeta(params, total),
	})
}

// Reserve stamps a reservation window on a stored snapshot.
func (h *ComputationHandler) Reserve(c *fiber.Ctx) error {
	profile, err := h.computations.Reserve(c.Context(), c.Params("ref"))
	if err != nil {
		return response.FromDomainError(c, err)
	}
	return response.Success(c, "Reservation recorded", fiber.Map{
		"reference_code": profile.ReferenceCode,
		"reserved_at":    profile.ReservedAt,
		"reserved_until": profile.ReservedUntil,
	})
}
