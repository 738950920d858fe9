package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-qualify/internal/core/domain"
)

func institution(t *testing.T, code string) domain.LendingInstitution {
	t.Helper()
	for _, inst := range domain.DefaultCatalogue() {
		if inst.Code == code {
			return inst
		}
	}
	t.Fatalf("no catalogue institution %q", code)
	return domain.LendingInstitution{}
}

func TestMiscFeeTiers(t *testing.T) {
	rules := DefaultFeeRules()
	hdmf := institution(t, "hdmf")
	dp := domain.MustPercent(0.10)

	cases := []struct {
		name    string
		tcp     float64
		rate    float64
		applies bool
	}{
		{"at first ceiling", 1_000_000, 0.085, true},
		{"above first ceiling", 1_000_001, 0.0425, true},
		{"mid tier", 1_500_000, 0.0425, true},
		{"at second ceiling", 2_500_000, 0.0425, true},
		{"above all ceilings", 2_500_001, 0, false},
		{"high price", 5_000_000, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, applies := rules.MiscFeeFor(php(t, tc.tcp), hdmf, dp)
			assert.Equal(t, tc.applies, applies)
			assert.InDelta(t, tc.rate, pct.Value(), 1e-12)
		})
	}
}

func TestMiscFeeWaivedByDownPayment(t *testing.T) {
	rules := DefaultFeeRules()
	hdmf := institution(t, "hdmf")

	_, applies := rules.MiscFeeFor(php(t, 1_000_000), hdmf, domain.MustPercent(0.30))
	assert.False(t, applies)

	_, applies = rules.MiscFeeFor(php(t, 1_000_000), hdmf, domain.MustPercent(0.50))
	assert.False(t, applies)

	pct, applies := rules.MiscFeeFor(php(t, 1_000_000), hdmf, domain.MustPercent(0.29))
	require.True(t, applies)
	assert.Equal(t, 0.085, pct.Value())
}

func TestMiscFeeInstitutionWithoutTiers(t *testing.T) {
	rules := DefaultFeeRules()
	bpi := institution(t, "bpi")

	// No tier schedule means the full rate at any contract price.
	pct, applies := rules.MiscFeeFor(php(t, 10_000_000), bpi, domain.MustPercent(0.20))
	require.True(t, applies)
	assert.Equal(t, 0.05, pct.Value())
}

func TestMiscFeeZeroRateNeverApplies(t *testing.T) {
	rules := DefaultFeeRules()
	inst := institution(t, "bpi")
	inst.MiscFeePercent = domain.ZeroPercent()

	_, applies := rules.MiscFeeFor(php(t, 1_000_000), inst, domain.MustPercent(0.10))
	assert.False(t, applies)
}
