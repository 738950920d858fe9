package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/core/domain"
	"mortgage-qualify/internal/core/engine"
)

type mockProfileRepo struct {
	created    []*models.LoanProfile
	createErr  error
	byCode     map[string]*models.LoanProfile
	reservedAt map[string][2]time.Time
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		byCode:     make(map[string]*models.LoanProfile),
		reservedAt: make(map[string][2]time.Time),
	}
}

func (m *mockProfileRepo) Create(_ context.Context, profile *models.LoanProfile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, profile)
	m.byCode[profile.ReferenceCode] = profile
	return nil
}

func (m *mockProfileRepo) GetByReferenceCode(_ context.Context, code string) (*models.LoanProfile, error) {
	p, ok := m.byCode[code]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) List(_ context.Context, _, _ int) ([]*models.LoanProfile, int64, error) {
	return m.created, int64(len(m.created)), nil
}

func (m *mockProfileRepo) Reserve(_ context.Context, code string, at, until time.Time) error {
	p, ok := m.byCode[code]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.ReservedAt = &at
	p.ReservedUntil = &until
	m.reservedAt[code] = [2]time.Time{at, until}
	return nil
}

func (m *mockProfileRepo) ReleaseExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type mockCache struct {
	entries map[string]string
	gets    int
	sets    int
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (m *mockCache) Get(_ context.Context, key string) (string, bool) {
	m.gets++
	v, ok := m.entries[key]
	return v, ok
}

func (m *mockCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}

func testService(t *testing.T, repo *mockProfileRepo, cache *mockCache) *ComputationService {
	t.Helper()
	registry, err := domain.NewRegistry(domain.DefaultCatalogue()...)
	require.NoError(t, err)
	eng := engine.New(registry, engine.DefaultFeeRules())
	return NewComputationService(eng, repo, cache, time.Hour, 72*time.Hour, zap.NewNop())
}

func testInputs(t *testing.T) domain.MortgageInputs {
	t.Helper()
	income, err := domain.MoneyFromFloat(80_000, "PHP")
	require.NoError(t, err)
	tcp, err := domain.MoneyFromFloat(1_000_000, "PHP")
	require.NoError(t, err)
	return domain.MortgageInputs{
		Buyer: domain.BuyerProfile{Age: 30, MonthlyGrossIncome: income},
		Property: domain.PropertyTerms{
			TotalContractPrice: tcp,
			InstitutionCode:    "hdmf",
		},
	}
}

func TestComputeStoresProfileAndCachesResult(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	out, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)

	assert.False(t, out.Cached)
	assert.True(t, strings.HasPrefix(out.ReferenceCode, "LP-"))
	require.NotNil(t, out.Result)
	assert.True(t, out.Result.Qualifies)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, out.ReferenceCode, stored.ReferenceCode)
	assert.Equal(t, "hdmf", stored.InstitutionCode)
	assert.True(t, stored.Qualified)

	// The snapshot replays to the same result bundle.
	replayed, err := stored.Result()
	require.NoError(t, err)
	assert.Equal(t, out.Result.InstitutionCode, replayed.InstitutionCode)
	assert.Equal(t, 0, out.Result.TotalMonthlyObligation.Cmp(replayed.TotalMonthlyObligation))

	assert.Equal(t, 1, cache.sets)
	for key := range cache.entries {
		assert.True(t, strings.HasPrefix(key, "mortgage:computation:"))
	}
}

func TestComputeCacheHitSkipsEngineAndStore(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	first, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)

	second, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.ReferenceCode, second.ReferenceCode)
	// No second snapshot, no second cache store.
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1, cache.sets)
}

func TestComputeDiscardsUndecodableCacheEntry(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	in := testInputs(t)
	// Poison the stored entry; the service recomputes on decode failure.
	first, err := svc.Compute(context.Background(), in)
	require.NoError(t, err)
	for key := range cache.entries {
		cache.entries[key] = "{not json"
	}

	out, err := svc.Compute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.NotEqual(t, first.ReferenceCode, out.ReferenceCode)
	assert.Len(t, repo.created, 2)
}

func TestComputeSaveFailurePropagates(t *testing.T) {
	repo := newMockProfileRepo()
	repo.createErr = errors.New("connection refused")
	cache := newMockCache()
	svc := testService(t, repo, cache)

	_, err := svc.Compute(context.Background(), testInputs(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save loan profile")
	// Nothing half-stored ends up in the cache.
	assert.Empty(t, cache.entries)
}

func TestComputeCacheStoreFailureIsNotFatal(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	cache.setErr = errors.New("redis down")
	svc := testService(t, repo, cache)

	out, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Len(t, repo.created, 1)
}

func TestComputeInvalidInputBypassesPersistence(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	in := testInputs(t)
	in.Property.InstitutionCode = "unknown-bank"

	_, err := svc.Compute(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInstitutionNotFound)
	assert.Empty(t, repo.created)
}

func TestReserveStampsWindow(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	out, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)

	before := time.Now().UTC()
	profile, err := svc.Reserve(context.Background(), out.ReferenceCode)
	require.NoError(t, err)
	after := time.Now().UTC()

	require.NotNil(t, profile.ReservedAt)
	require.NotNil(t, profile.ReservedUntil)
	assert.False(t, profile.ReservedAt.Before(before))
	assert.False(t, profile.ReservedAt.After(after))
	assert.Equal(t, 72*time.Hour, profile.ReservedUntil.Sub(*profile.ReservedAt))
}

func TestReserveUnknownReference(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	_, err := svc.Reserve(context.Background(), "LP-DOESNOTEXIST")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestGetAndList(t *testing.T) {
	repo := newMockProfileRepo()
	cache := newMockCache()
	svc := testService(t, repo, cache)

	out, err := svc.Compute(context.Background(), testInputs(t))
	require.NoError(t, err)

	got, err := svc.GetByReferenceCode(context.Background(), out.ReferenceCode)
	require.NoError(t, err)
	assert.Equal(t, out.ReferenceCode, got.ReferenceCode)

	profiles, total, err := svc.List(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, profiles, 1)
}
