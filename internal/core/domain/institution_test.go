package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(DefaultCatalogue()...)
	require.NoError(t, err)
	return reg
}

func TestRegistryGet(t *testing.T) {
	reg := defaultRegistry(t)

	inst, err := reg.Get("hdmf")
	require.NoError(t, err)
	assert.Equal(t, "Home Development Mutual Fund", inst.Name)
	assert.Equal(t, 0.0625, inst.InterestRate.Value())
}

func TestRegistryGetUnknownCode(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := reg.Get("unknown-bank")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Lookup is case-sensitive.
	_, err = reg.Get("HDMF")
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
}

func TestRegistryCoefficientFallback(t *testing.T) {
	reg := defaultRegistry(t)

	mri, err := reg.Coefficient("hdmf", CoeffMRIRate, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.225, mri)

	// bdo defines no fire insurance coefficient; caller default wins.
	fire, err := reg.Coefficient("bdo", CoeffFireInsuranceRate, 0.00212584)
	require.NoError(t, err)
	assert.Equal(t, 0.00212584, fire)

	_, err = reg.Coefficient("nope", CoeffMRIRate, 0.5)
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
}

func TestRegistryRejectsDuplicateCodes(t *testing.T) {
	catalogue := DefaultCatalogue()
	_, err := NewRegistry(append(catalogue, catalogue[0])...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestRegistryRejectsInvalidRecords(t *testing.T) {
	bad := DefaultCatalogue()[0]
	bad.BorrowingAgeMinimum = 70
	bad.BorrowingAgeMaximum = 21

	_, err := NewRegistry(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestInstitutionValidate(t *testing.T) {
	inst := DefaultCatalogue()[0]
	require.NoError(t, inst.Validate())

	noCode := inst
	noCode.Code = ""
	assert.ErrorIs(t, noCode.Validate(), ErrInvalidValue)

	zeroTerm := inst
	zeroTerm.MaxTermYears = 0
	assert.ErrorIs(t, zeroTerm.Validate(), ErrInvalidValue)
}

func TestRegistryCodesAndAll(t *testing.T) {
	reg := defaultRegistry(t)
	assert.ElementsMatch(t, []string{"hdmf", "bpi", "bdo"}, reg.Codes())
	assert.Len(t, reg.All(), 3)
}
