package models

import (
	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategoryRawMaterial  = "raw_material"
	CategoryFinishedGood = "finished_good"
)

type InventoryItem struct {
	gorm.Model
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Name         string            `json:"name" gorm:"unique"`
	Category     string            `json:"category"`
	Uom          string            `json:"uom"`
	Quantity     decimal.Decimal   `json:"quantity" gorm:"type:decimal(20,6);default:0"`
	CostPrice    decimal.Decimal   `json:"cost_price" gorm:"type:decimal(20,2);default:0"`
	SellingPrice decimal.Decimal   `json:"selling_price" gorm:"type:decimal(20,2);default:0"`
	HsnCode      string            `json:"hsn_code"`
	GstRate      decimal.Decimal   `json:"gst_rate" gorm:"type:decimal(6,2);default:0"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
