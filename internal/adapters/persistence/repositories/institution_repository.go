package repositories

import (
	"context"

	"gorm.io/gorm"

	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/core/domain"
)

// InstitutionRepository reads the institution configuration store. Writes
// happen only through the boot-time seeder.
type InstitutionRepository struct {
	db *gorm.DB
}

// NewInstitutionRepository creates a new institution repository.
func NewInstitutionRepository(db *gorm.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// LoadRegistry reads every institution row and builds the read-only domain
// registry. Called once at boot, before any computation runs.
func (r *InstitutionRepository) LoadRegistry(ctx context.Context) (*domain.Registry, error) {
	var rows []*models.LendingInstitution
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}

	institutions := make([]domain.LendingInstitution, 0, len(rows))
	for _, row := range rows {
		inst, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}
	return domain.NewRegistry(institutions...)
}

// Count returns the number of stored institutions.
func (r *InstitutionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.LendingInstitution{}).Count(&total).Error
	return total, err
}
