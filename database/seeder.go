// database/seeder.go
package database

import (
	"errors"

	"factory-app/controllers/idgen"
	"factory-app/models"
	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedLocations(db)
	SeedRawMaterials(db)
	SeedProductMasters(db)
}

func SeedLocations(db *gorm.DB) {
	locations := []models.Location{
		{LocationCode: "PROD-01", Name: "Production Floor", Type: "production"},
		{LocationCode: "CURE-01", Name: "Curing Yard", Type: "curing"},
		{LocationCode: "STORE-01", Name: "Finished Goods Store", Type: "store"},
	}

	for _, l := range locations {
		var existing models.Location
		if err := db.Where("location_code = ?", l.LocationCode).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.IsActive = true
				db.Create(&l)
			}
		}
	}
}

func SeedRawMaterials(db *gorm.DB) {
	materials := []models.InventoryItem{
		{Name: "Cement", Uom: "KG", Quantity: decimal.NewFromInt(0)},
		{Name: "Sand", Uom: "KG", Quantity: decimal.NewFromInt(0)},
		{Name: "Aggregate", Uom: "KG", Quantity: decimal.NewFromInt(0)},
		{Name: "Fly Ash", Uom: "KG", Quantity: decimal.NewFromInt(0)},
	}

	for _, m := range materials {
		var existing models.InventoryItem
		if err := db.Where("name = ?", m.Name).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				m.ID = types.SnowflakeID(idgen.GenerateID())
				m.Category = models.CategoryRawMaterial
				db.Create(&m)
			}
		}
	}
}

func SeedProductMasters(db *gorm.DB) {
	products := []models.ProductMaster{
		{Code: "BLK-4IN", Name: "Solid Block 4 Inch", Uom: "PCS", DefaultLabourRate: decimal.NewFromFloat(2.50)},
		{Code: "BLK-6IN", Name: "Solid Block 6 Inch", Uom: "PCS", DefaultLabourRate: decimal.NewFromFloat(3.00)},
		{Code: "PVR-ZIG", Name: "Zigzag Paver", Uom: "PCS", DefaultLabourRate: decimal.NewFromFloat(1.75)},
	}

	for _, p := range products {
		var existing models.ProductMaster
		if err := db.Where("code = ?", p.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p.ID = types.SnowflakeID(idgen.GenerateID())
				db.Create(&p)
			}
		}
	}
}
