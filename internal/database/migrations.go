package database

import (
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// Rooms must migrate before contracts and invoices so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Contract{},
		&models.Invoice{},
		&models.Receipt{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.CacheEntry{},
	)
}
