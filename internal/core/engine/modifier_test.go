package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-qualify/internal/core/domain"
)

func php(t *testing.T, v float64) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromFloat(v, "PHP")
	require.NoError(t, err)
	return m
}

func TestDownPaymentDeduction(t *testing.T) {
	mod := DownPaymentDeduction(domain.MustPercent(0.20))

	out, err := mod.Apply(php(t, 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, "800000.00", out.Amount().StringFixed(2))
	assert.Equal(t, KeyDownPaymentDeduction, mod.Key())
	assert.True(t, mod.BeforeTax())
}

func TestMiscFeeMarkup(t *testing.T) {
	mod := MiscFeeMarkup(domain.MustPercent(0.085))

	out, err := mod.Apply(php(t, 800_000))
	require.NoError(t, err)
	assert.Equal(t, "868000.00", out.Amount().StringFixed(2))
	assert.Equal(t, KeyMiscFeeMarkup, mod.Key())
	assert.False(t, mod.BeforeTax())
}

func TestPresentValueZeroRate(t *testing.T) {
	// At a zero rate the annuity degenerates to a flat sum of the payments.
	mod := PresentValue(domain.ZeroPercent(), 1)

	out, err := mod.Apply(php(t, 1_000))
	require.NoError(t, err)
	assert.Equal(t, "12000.00", out.Amount().StringFixed(2))
}

func TestPresentValueMonotonicInRate(t *testing.T) {
	payment := php(t, 10_000)

	low, err := PresentValue(domain.MustPercent(0.05), 20).Apply(payment)
	require.NoError(t, err)
	high, err := PresentValue(domain.MustPercent(0.10), 20).Apply(payment)
	require.NoError(t, err)

	// Discounting harder shrinks the present value.
	assert.Equal(t, 1, low.Cmp(high))
}

func TestPresentValueRejectsNonPositiveTerm(t *testing.T) {
	_, err := PresentValue(domain.MustPercent(0.0625), 0).Apply(php(t, 1_000))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthlyAmortizationZeroRate(t *testing.T) {
	out, err := MonthlyAmortization(php(t, 120_000), domain.ZeroPercent(), 1)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", out.Amount().StringFixed(2))
}

func TestMonthlyAmortizationRejectsZeroTerm(t *testing.T) {
	_, err := MonthlyAmortization(php(t, 120_000), domain.MustPercent(0.0625), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAmortizationPresentValueRoundTrip(t *testing.T) {
	// The monthly payment discounted back over the same term recovers the
	// principal, within the drift one minor-unit rounding can introduce.
	principal := php(t, 868_000)
	rate := domain.MustPercent(0.0625)

	payment, err := MonthlyAmortization(principal, rate, 30)
	require.NoError(t, err)
	back, err := PresentValue(rate, 30).Apply(payment)
	require.NoError(t, err)

	diff := principal.Amount().Sub(back.Amount()).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromInt(1)),
		"principal %s, recovered %s", principal.Amount(), back.Amount())
}

func TestPipelineAppliesInOrder(t *testing.T) {
	pipeline := Pipeline{
		DownPaymentDeduction(domain.MustPercent(0.20)),
		MiscFeeMarkup(domain.MustPercent(0.085)),
	}

	out, err := pipeline.Apply(php(t, 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, "868000.00", out.Amount().StringFixed(2))

	trail := pipeline.Audit()
	require.Len(t, trail, 2)
	assert.Equal(t, KeyDownPaymentDeduction, trail[0].Key)
	assert.Equal(t, KeyMiscFeeMarkup, trail[1].Key)
	assert.Equal(t, "0.2", trail[0].Attributes["percent_down_payment"])
}
