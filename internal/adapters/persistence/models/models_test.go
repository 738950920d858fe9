package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-qualify/internal/core/domain"
)

func TestInstitutionRowRoundTrip(t *testing.T) {
	for _, inst := range domain.DefaultCatalogue() {
		row, err := InstitutionFromDomain(inst)
		require.NoError(t, err)

		back, err := row.ToDomain()
		require.NoError(t, err)

		assert.Equal(t, inst.Code, back.Code)
		assert.Equal(t, inst.Active, back.Active)
		assert.True(t, inst.InterestRate.Equal(back.InterestRate))
		assert.True(t, inst.DownPaymentPercent.Equal(back.DownPaymentPercent))
		assert.Equal(t, 0, inst.ProcessingFee.Cmp(back.ProcessingFee))
		assert.Equal(t, inst.MaxPayingAge, back.MaxPayingAge)
		assert.Equal(t, inst.Coefficients[domain.CoeffMRIRate], back.Coefficient(domain.CoeffMRIRate, -1))
	}
}

func TestInstitutionRowRejectsBadCoefficients(t *testing.T) {
	row := LendingInstitution{
		Code:                "broken",
		Name:                "Broken Bank",
		Coefficients:        "{not json",
		BorrowingAgeMinimum: 21,
		BorrowingAgeMaximum: 65,
		MaxTermYears:        30,
		MaxPayingAge:        70,
	}
	_, err := row.ToDomain()
	require.Error(t, err)
}

func TestLoanProfileResponseOmitsBundleUnlessFull(t *testing.T) {
	p := &LoanProfile{
		ReferenceCode:   "LP-TEST",
		InstitutionCode: "hdmf",
		Computation:     `{"qualifies":true}`,
	}

	slim := p.ToResponse(false)
	assert.Nil(t, slim.Computation)

	full := p.ToResponse(true)
	assert.JSONEq(t, `{"qualifies":true}`, string(full.Computation))
}
