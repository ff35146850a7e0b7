// database/migrate.go
package database

import (
	"factory-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.InventoryItem{},
		&models.ProductMaster{},
		&models.RecipeItem{},
		&models.Location{},
		&models.ProductionRun{},
		&models.LabourPayable{},
		&models.PaymentTransaction{},
	)
}
