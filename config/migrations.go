package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/cartrade/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250301_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Invoice{},
					&models.Attachment{}, &models.Note{}, &models.PurchaseOrder{})
			},
		},
		{
			ID: "20250415_add_status_transitions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.StatusTransition{})
			},
		},
		{
			ID: "20250502_index_vehicle_status",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_vehicles_status_created_at ON vehicles (status, created_at DESC)").Error
			},
		},
	})
	return m.Migrate()
}
