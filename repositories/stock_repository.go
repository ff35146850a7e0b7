package repositories

import (
	"errors"
	"fmt"

	"factory-app/models"
	"factory-app/types"
	"factory-app/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

type StockDebit struct {
	ItemID types.SnowflakeID
	Qty    decimal.Decimal
}

type StockCredit struct {
	ItemID types.SnowflakeID
	Qty    decimal.Decimal
}

// AggregateDebits menggabungkan kebutuhan per material SEBELUM dicek ke stok.
// Dua baris produksi yang memakai material sama harus divalidasi terhadap
// total gabungannya, bukan masing-masing sendiri.
func AggregateDebits(debits []StockDebit) []StockDebit {
	totals := make(map[types.SnowflakeID]decimal.Decimal)
	for _, d := range debits {
		totals[d.ItemID] = totals[d.ItemID].Add(d.Qty)
	}

	ids := make([]types.SnowflakeID, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]StockDebit, 0, len(ids))
	for _, id := range ids {
		result = append(result, StockDebit{ItemID: id, Qty: totals[id]})
	}
	return result
}

// ApplyStockChanges menjalankan debit + credit stok lewat handle repository.
// Dibuat dengan tx yang sama dengan penulisan dokumen run-nya supaya kalau
// ada satu material yang kurang, seluruh operasi gagal tanpa ada yang
// tertulis.
func (r *StockRepository) ApplyStockChanges(debits []StockDebit, credits []StockCredit) error {
	tx := r.db
	debits = AggregateDebits(debits)

	for _, d := range debits {
		if !d.Qty.IsPositive() {
			continue
		}

		var item models.InventoryItem
		if err := tx.Where("id = ?", d.ItemID).Take(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("material %d: %w", int64(d.ItemID), utils.ErrNotFound)
			}
			return err
		}

		if item.Quantity.LessThan(d.Qty) {
			return &utils.InsufficientStockError{
				ItemName:  item.Name,
				Available: item.Quantity,
				Required:  d.Qty,
			}
		}

		newQty := models.Round2(item.Quantity.Sub(d.Qty))
		if err := tx.Model(&item).Update("quantity", newQty).Error; err != nil {
			return err
		}
	}

	for _, c := range credits {
		if !c.Qty.IsPositive() {
			continue
		}

		var item models.InventoryItem
		if err := tx.Where("id = ?", c.ItemID).Take(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("finished good %d: %w", int64(c.ItemID), utils.ErrNotFound)
			}
			return err
		}

		newQty := models.Round2(item.Quantity.Add(c.Qty))
		if err := tx.Model(&item).Update("quantity", newQty).Error; err != nil {
			return err
		}
	}

	return nil
}
