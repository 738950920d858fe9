package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/core/domain"
)

// LoanProfileRepository handles loan profile snapshot persistence.
type LoanProfileRepository struct {
	db *gorm.DB
}

// NewLoanProfileRepository creates a new loan profile repository.
func NewLoanProfileRepository(db *gorm.DB) *LoanProfileRepository {
	return &LoanProfileRepository{db: db}
}

// Create persists a new snapshot. The unique index on reference_code
// enforces uniqueness.
func (r *LoanProfileRepository) Create(ctx context.Context, profile *models.LoanProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetByReferenceCode fetches a snapshot by its reference code.
func (r *LoanProfileRepository) GetByReferenceCode(ctx context.Context, code string) (*models.LoanProfile, error) {
	var profile models.LoanProfile
	err := r.db.WithContext(ctx).
		Where("reference_code = ?", code).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// List lists snapshots newest-first with pagination.
func (r *LoanProfileRepository) List(ctx context.Context, offset, limit int) ([]*models.LoanProfile, int64, error) {
	var profiles []*models.LoanProfile
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.LoanProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error

	return profiles, total, err
}

// Reserve stamps a reservation window on a snapshot.
func (r *LoanProfileRepository) Reserve(ctx context.Context, code string, at, until time.Time) error {
	tx := r.db.WithContext(ctx).
		Model(&models.LoanProfile{}).
		Where("reference_code = ?", code).
		Updates(map[string]interface{}{
			"reserved_at":    at,
			"reserved_until": until,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ReleaseExpired clears reservations whose window has passed and returns how
// many were released. The filter runs on reserved_until only.
func (r *LoanProfileRepository) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.LoanProfile{}).
		Where("reserved_until IS NOT NULL AND reserved_until < ?", now).
		Updates(map[string]interface{}{
			"reserved_at":    nil,
			"reserved_until": nil,
		})
	return tx.RowsAffected, tx.Error
}
