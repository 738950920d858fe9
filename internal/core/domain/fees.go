package domain

// MonthlyFeeKind names a recurring monthly add-on charge. The set is
// open-ended: deployments add new kinds over time and the engine carries them
// as a named collection rather than fixed fields.
type MonthlyFeeKind string

const (
	// MonthlyFeeMRI is mortgage redemption insurance.
	MonthlyFeeMRI MonthlyFeeKind = "mri"
	// MonthlyFeeFireInsurance is the annual fire insurance premium amortized
	// monthly.
	MonthlyFeeFireInsurance MonthlyFeeKind = "fire_insurance"
	// MonthlyFeeOther is a placeholder kind for future extension; it always
	// computes to zero unless an explicit amount is supplied.
	MonthlyFeeOther MonthlyFeeKind = "other"
)

// Label returns the stable human-readable label of the fee kind.
func (k MonthlyFeeKind) Label() string {
	switch k {
	case MonthlyFeeMRI:
		return "Mortgage Redemption Insurance"
	case MonthlyFeeFireInsurance:
		return "Fire Insurance"
	case MonthlyFeeOther:
		return "Other Charges"
	default:
		return string(k)
	}
}

// ConfigKey returns the configuration key under which a deployment-level
// default amount for this fee kind is looked up.
func (k MonthlyFeeKind) ConfigKey() string {
	return "monthly_fee." + string(k)
}

// AddOnFee is an order-level instruction for one monthly fee kind: enable or
// disable it, and optionally pin an explicit amount instead of the computed
// one.
type AddOnFee struct {
	Kind    MonthlyFeeKind `json:"kind"`
	Amount  *Money         `json:"amount,omitempty"`
	Enabled bool           `json:"enabled"`
}
