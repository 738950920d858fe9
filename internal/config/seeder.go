package config

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/core/domain"
)

// SeedInstitutions copies the static default catalogue into the
// configuration store. Rows already present are left untouched, so operator
// edits survive restarts.
func SeedInstitutions(db *gorm.DB) error {
	for _, inst := range domain.DefaultCatalogue() {
		var existing models.LendingInstitution
		err := db.Where("code = ?", inst.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row, err := models.InstitutionFromDomain(inst)
		if err != nil {
			return err
		}
		if err := db.Create(row).Error; err != nil {
			return err
		}
		log.Printf("   Seeded lending institution: %s", inst.Code)
	}
	return nil
}
