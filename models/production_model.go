package models

import (
	"time"

	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RunStatusStarted   = "Started"
	RunStatusOnCuring  = "On Curing"
	RunStatusCompleted = "Completed"
)

type ProductionRun struct {
	gorm.Model
	ID               types.SnowflakeID  `json:"ID" gorm:"primaryKey"`
	BatchNo          string             `json:"batch_no" gorm:"unique"`
	ProductionDate   string             `json:"production_date"`
	ProductMasterID  types.SnowflakeID  `json:"product_master_id" gorm:"index"`
	FinishedGoodID   types.SnowflakeID  `json:"finished_good_id"`
	LocationCode     string             `json:"location_code"`
	QuantityProduced int                `json:"quantity_produced" gorm:"default:0"`
	CuringQty        int                `json:"curing_qty" gorm:"default:0"`
	GoodQty          int                `json:"good_qty" gorm:"default:0"`
	RejectedQty      int                `json:"rejected_quantity" gorm:"default:0"`
	InternalUseQty   int                `json:"internal_use_qty" gorm:"default:0"`
	LabourQty        int                `json:"labour_qty" gorm:"default:0"`
	LabourRate       decimal.Decimal    `json:"labour_rate_per_product" gorm:"type:decimal(20,2);default:0"`
	LabourCost       decimal.Decimal    `json:"labour_cost" gorm:"type:decimal(20,2);default:0"`
	Status           string             `json:"status" gorm:"default:'Started'"`
	CuringStartAt    *time.Time         `json:"curing_start_at"`
	SourceRunID      *types.SnowflakeID `json:"source_run_id" gorm:"index"`
	CreatedBy        int
	UpdatedBy        int
	DeletedBy        int
}

// IsDerived: run hasil alokasi internal-use, tidak pernah ikut proses curing.
func (r *ProductionRun) IsDerived() bool {
	return r.SourceRunID != nil && *r.SourceRunID != 0
}

type QuantityFlow struct {
	ProducedQty         int `json:"produced_qty"`
	MovedToCuringQty    int `json:"moved_to_curing_qty"`
	CompletedGoodQty    int `json:"completed_good_qty"`
	DamagedQty          int `json:"damaged_qty"`
	OnCuringQty         int `json:"on_curing_qty"`
	WaitingForCuringQty int `json:"waiting_for_curing_qty"`
	InternalUseQty      int `json:"internal_use_qty"`
	AvailableQty        int `json:"available_qty"`
}

// CalculateFlow menurunkan semua angka per-tahap dari counter yang tersimpan.
// Satu-satunya sumber kebenaran untuk "posisi batch sekarang"; status yang
// tersimpan hanyalah mirror dari hasil fungsi ini.
func CalculateFlow(run *ProductionRun) QuantityFlow {
	flow := QuantityFlow{
		ProducedQty:    run.QuantityProduced,
		InternalUseQty: run.InternalUseQty,
	}

	if run.IsDerived() {
		// Batch turunan langsung jadi, semua field curing dipaksa 0
		flow.CompletedGoodQty = run.GoodQty
		flow.DamagedQty = run.RejectedQty
		flow.AvailableQty = run.GoodQty - run.InternalUseQty
		if flow.AvailableQty < 0 {
			flow.AvailableQty = 0
		}
		return flow
	}

	moved := run.CuringQty
	if moved <= 0 && run.Status == RunStatusCompleted {
		// Data lama sebelum ada counter curing: batch yang sudah Completed
		// dianggap seluruh produksinya pernah masuk curing
		moved = run.QuantityProduced
	}
	if moved < 0 {
		moved = 0
	}
	if moved > run.QuantityProduced {
		moved = run.QuantityProduced
	}

	good := run.GoodQty
	damaged := run.RejectedQty
	if good < 0 {
		good = 0
	}
	if damaged < 0 {
		damaged = 0
	}

	// Guard untuk data lama yang countersnya melebihi jumlah yang benar-benar
	// dipindah ke curing
	processed := good + damaged
	if good > processed {
		processed = good
	}
	if processed > moved {
		processed = moved
	}
	if good > processed {
		good = processed
	}
	if good+damaged > processed {
		damaged = processed - good
	}

	flow.MovedToCuringQty = moved
	flow.CompletedGoodQty = good
	flow.DamagedQty = damaged
	flow.OnCuringQty = moved - processed
	flow.WaitingForCuringQty = run.QuantityProduced - moved
	flow.AvailableQty = good - run.InternalUseQty
	if flow.AvailableQty < 0 {
		flow.AvailableQty = 0
	}

	return flow
}

// StageOf menurunkan tahap batch dari counters
func StageOf(run *ProductionRun) string {
	if run.IsDerived() {
		return RunStatusCompleted
	}

	flow := CalculateFlow(run)
	if flow.WaitingForCuringQty <= 0 && flow.OnCuringQty <= 0 && flow.ProducedQty > 0 {
		return RunStatusCompleted
	}
	if flow.OnCuringQty > 0 {
		return RunStatusOnCuring
	}
	return RunStatusStarted
}

// ComputeLabourCost = round2(labourQty × ratePerProduct)
func ComputeLabourCost(labourQty int, rate decimal.Decimal) decimal.Decimal {
	return Round2(rate.Mul(decimal.NewFromInt(int64(labourQty))))
}
