package services

import (
	"context"
	"time"

	"mortgage-qualify/internal/adapters/persistence/models"
)

// LoanProfileRepository is the persistence contract the computation service
// depends on. The gorm implementation lives in the persistence adapters;
// tests substitute struct mocks.
type LoanProfileRepository interface {
	Create(ctx context.Context, profile *models.LoanProfile) error
	GetByReferenceCode(ctx context.Context, code string) (*models.LoanProfile, error)
	List(ctx context.Context, offset, limit int) ([]*models.LoanProfile, int64, error)
	Reserve(ctx context.Context, code string, at, until time.Time) error
	ReleaseExpired(ctx context.Context, now time.Time) (int64, error)
}

// ResultCache is the deterministic-result cache contract. Lookup misses and
// store failures must degrade to recomputation, never to request failure.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
