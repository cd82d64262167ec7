package database

import (
	"fmt"

	"udaan_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date for all models. The uuid
// extension must exist before the first table with a uuid default.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.MediaFile{},
		&models.Notification{},
	)
}
