package repositories_test

import (
	"os"
	"testing"

	"factory-app/controllers/idgen"
	"factory-app/database"
	"factory-app/models"
	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// openTestDB membuka koneksi ke database test. Di-skip kalau TEST_DB_DSN
// tidak di-set, misal: TEST_DB_DSN="golang:password@tcp(localhost:3306)/factory_test?charset=utf8mb4&parseTime=True&loc=Local"
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("set TEST_DB_DSN to run database tests")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	idgen.Init()

	// Bersihkan sisa data run sebelumnya, urut sesuai relasi
	for _, table := range []string{
		"payment_transactions",
		"labour_payables",
		"production_runs",
		"recipe_items",
		"product_masters",
		"inventory_items",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}

	return db
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, qty string) models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		ID:       types.SnowflakeID(idgen.GenerateID()),
		Name:     name,
		Category: models.CategoryRawMaterial,
		Uom:      "KG",
		Quantity: decimal.RequireFromString(qty),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed material %s: %v", name, err)
	}
	return item
}

func seedProduct(t *testing.T, db *gorm.DB, code, name, labourRate string, recipe map[types.SnowflakeID]string) models.ProductMaster {
	t.Helper()

	master := models.ProductMaster{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		Code:              code,
		Name:              name,
		Uom:               "PCS",
		DefaultLabourRate: decimal.RequireFromString(labourRate),
	}
	for materialID, qtyPerUnit := range recipe {
		master.Recipe = append(master.Recipe, models.RecipeItem{
			MaterialID: materialID,
			QtyPerUnit: decimal.RequireFromString(qtyPerUnit),
		})
	}
	if err := db.Create(&master).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", code, err)
	}
	return master
}

func materialQty(t *testing.T, db *gorm.DB, id types.SnowflakeID) decimal.Decimal {
	t.Helper()

	var item models.InventoryItem
	if err := db.Where("id = ?", id).Take(&item).Error; err != nil {
		t.Fatalf("failed to load item %d: %v", int64(id), err)
	}
	return item.Quantity
}
