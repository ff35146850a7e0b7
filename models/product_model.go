package models

import (
	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductMaster struct {
	gorm.Model
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Code              string            `json:"code" gorm:"unique"`
	Name              string            `json:"name"`
	Uom               string            `json:"uom"`
	HsnCode           string            `json:"hsn_code"`
	GstRate           decimal.Decimal   `json:"gst_rate" gorm:"type:decimal(6,2);default:0"`
	DefaultLabourRate decimal.Decimal   `json:"default_labour_rate" gorm:"type:decimal(20,2);default:0"`
	CostPrice         decimal.Decimal   `json:"cost_price" gorm:"type:decimal(20,2);default:0"`
	SellingPrice      decimal.Decimal   `json:"selling_price" gorm:"type:decimal(20,2);default:0"`
	Recipe            []RecipeItem      `json:"recipe" gorm:"foreignKey:ProductMasterID"`
	CreatedBy         int
	UpdatedBy         int
	DeletedBy         int
}

// RecipeItem: kebutuhan bahan baku per satu unit produk
type RecipeItem struct {
	ID              uint              `json:"ID" gorm:"primaryKey"`
	ProductMasterID types.SnowflakeID `json:"product_master_id" gorm:"index"`
	MaterialID      types.SnowflakeID `json:"material_id"`
	QtyPerUnit      decimal.Decimal   `json:"qty_per_unit" gorm:"type:decimal(20,6);default:0"`
}
