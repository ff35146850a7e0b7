package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"factory-app/controllers/idgen"
	"factory-app/models"
	"factory-app/types"
	"factory-app/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

// ProductionLine: satu baris input pembuatan batch. Beberapa baris boleh
// disimpan sekaligus dengan satu tanggal produksi.
type ProductionLine struct {
	ProductMasterID types.SnowflakeID `json:"product_master_id"`
	Quantity        int               `json:"quantity"`
	LabourRate      *decimal.Decimal  `json:"labour_rate"`
}

type ListProductionRun struct {
	models.ProductionRun
	ProductName string              `json:"product_name"`
	Stage       string              `json:"stage"`
	Flow        models.QuantityFlow `json:"flow"`
}

// generateBatchNo membuat nomor batch baru format PByymmddxxxx,
// sequence reset tiap ganti tanggal
func generateBatchNo(tx *gorm.DB) (string, error) {
	var lastRun models.ProductionRun

	// Ambil batch terakhir
	if err := tx.Unscoped().Last(&lastRun).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	now := time.Now()
	currentDate := now.Format("060102") // 06=YY, 01=MM, 02=DD

	var batchNo string
	if lastRun.BatchNo != "" && len(lastRun.BatchNo) >= 12 {
		lastDatePart := lastRun.BatchNo[2:8]
		lastSequenceStr := lastRun.BatchNo[len(lastRun.BatchNo)-4:]

		if currentDate != lastDatePart {
			// Tanggal berbeda → reset sequence ke 1
			batchNo = fmt.Sprintf("PB%s%04d", currentDate, 1)
		} else {
			// Tanggal sama → increment sequence
			lastSequenceInt, _ := strconv.Atoi(lastSequenceStr)
			batchNo = fmt.Sprintf("PB%s%04d", currentDate, lastSequenceInt+1)
		}
	} else {
		batchNo = fmt.Sprintf("PB%s%04d", currentDate, 1)
	}

	return batchNo, nil
}

// ensureFinishedGoodItem mencari item finished good untuk sebuah product
// master, dibuat kalau belum ada (qty 0, metadata harga/pajak ikut master).
// Nama item unik lintas kategori, jadi nama yang sudah terpakai bahan baku
// ditolak supaya kredit hasil curing tidak pernah nyasar ke stok material.
func ensureFinishedGoodItem(tx *gorm.DB, master *models.ProductMaster, userID int) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := tx.Where("name = ?", master.Name).Take(&item).Error
	if err == nil {
		if item.Category != models.CategoryFinishedGood {
			return nil, utils.NewValidationError("inventory item %q already exists as %s", item.Name, item.Category)
		}
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = models.InventoryItem{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		Name:         master.Name,
		Category:     models.CategoryFinishedGood,
		Uom:          master.Uom,
		Quantity:     decimal.Zero,
		CostPrice:    master.CostPrice,
		SellingPrice: master.SellingPrice,
		HsnCode:      master.HsnCode,
		GstRate:      master.GstRate,
		CreatedBy:    userID,
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateRuns menyimpan satu batch produksi multi-baris secara atomik:
// resolve resep per baris, agregasi kebutuhan material lintas baris,
// debit stok, lalu tulis satu ProductionRun per baris. Kalau stok kurang
// untuk total gabungan, tidak ada run yang dibuat sama sekali.
func (r *ProductionRepository) CreateRuns(date string, locationCode string, lines []ProductionLine, userID int) ([]models.ProductionRun, error) {
	if len(lines) == 0 {
		return nil, utils.NewValidationError("at least one production line is required")
	}
	if date == "" {
		return nil, utils.NewValidationError("production date is required")
	}
	for i, line := range lines {
		if line.ProductMasterID == 0 {
			return nil, utils.NewValidationError("line %d: product is required", i+1)
		}
		if line.Quantity <= 0 {
			return nil, utils.NewValidationError("line %d: quantity must be greater than zero", i+1)
		}
	}

	var runs []models.ProductionRun

	err := r.db.Transaction(func(tx *gorm.DB) error {
		stockRepo := NewStockRepository(tx)

		type resolvedLine struct {
			master *models.ProductMaster
			item   *models.InventoryItem
			line   ProductionLine
		}

		var resolved []resolvedLine
		var debits []StockDebit

		for i, line := range lines {
			var master models.ProductMaster
			if err := tx.Preload("Recipe").Where("id = ?", line.ProductMasterID).Take(&master).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NewValidationError("line %d: product not found", i+1)
				}
				return err
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			for _, recipe := range master.Recipe {
				debits = append(debits, StockDebit{
					ItemID: recipe.MaterialID,
					Qty:    recipe.QtyPerUnit.Mul(qty),
				})
			}

			item, err := ensureFinishedGoodItem(tx, &master, userID)
			if err != nil {
				return err
			}

			resolved = append(resolved, resolvedLine{master: &master, item: item, line: line})
		}

		// Cek + debit semua material dalam satu kali jalan, kebutuhan
		// digabung per material dulu di dalam ApplyStockChanges
		if err := stockRepo.ApplyStockChanges(debits, nil); err != nil {
			return err
		}

		for _, rl := range resolved {
			batchNo, err := generateBatchNo(tx)
			if err != nil {
				return err
			}

			rate := rl.master.DefaultLabourRate
			if rl.line.LabourRate != nil {
				rate = *rl.line.LabourRate
			}

			run := models.ProductionRun{
				ID:               types.SnowflakeID(idgen.GenerateID()),
				BatchNo:          batchNo,
				ProductionDate:   date,
				ProductMasterID:  rl.master.ID,
				FinishedGoodID:   rl.item.ID,
				LocationCode:     locationCode,
				QuantityProduced: rl.line.Quantity,
				LabourQty:        rl.line.Quantity,
				LabourRate:       models.Round2(rate),
				LabourCost:       models.ComputeLabourCost(rl.line.Quantity, rate),
				Status:           models.RunStatusStarted,
				CreatedBy:        userID,
			}

			if err := tx.Create(&run).Error; err != nil {
				return err
			}
			runs = append(runs, run)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return runs, nil
}

// MoveToCuring memindahkan sebagian hasil produksi ke area curing.
// Timestamp mulai curing hanya direkam sekali, pemindahan parsial
// berikutnya tidak menimpanya.
func (r *ProductionRepository) MoveToCuring(runID types.SnowflakeID, qty int, locationCode string, userID int) (*models.ProductionRun, error) {
	if qty <= 0 {
		return nil, utils.NewValidationError("quantity must be greater than zero")
	}

	var run models.ProductionRun

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", runID).Take(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		if run.IsDerived() {
			return utils.NewPreconditionError("derived batch does not go through curing")
		}

		flow := models.CalculateFlow(&run)
		if qty > flow.WaitingForCuringQty {
			return utils.NewPreconditionError("quantity %d exceeds waiting quantity %d", qty, flow.WaitingForCuringQty)
		}

		run.CuringQty += qty
		if run.CuringStartAt == nil {
			now := time.Now()
			run.CuringStartAt = &now
		}
		if locationCode != "" {
			run.LocationCode = locationCode
		}
		run.Status = models.StageOf(&run)
		run.UpdatedBy = userID

		return tx.Save(&run).Error
	})

	if err != nil {
		return nil, err
	}
	return &run, nil
}

// CompleteCuring mencatat hasil curing: passed adalah jumlah yang diangkat
// dari curing, damaged bagian yang rusak dari jumlah itu. Stok finished good
// dikredit sebesar passed − damaged dalam transaksi yang sama.
func (r *ProductionRepository) CompleteCuring(runID types.SnowflakeID, passed int, damaged int, locationCode string, userID int) (*models.ProductionRun, error) {
	if passed <= 0 {
		return nil, utils.NewValidationError("passed quantity must be greater than zero")
	}
	if damaged < 0 || damaged > passed {
		return nil, utils.NewValidationError("damaged quantity must be between 0 and passed quantity")
	}

	var run models.ProductionRun

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", runID).Take(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		if run.IsDerived() {
			return utils.NewPreconditionError("derived batch does not go through curing")
		}

		flow := models.CalculateFlow(&run)
		if passed > flow.OnCuringQty {
			return utils.NewPreconditionError("passed quantity %d exceeds on-curing quantity %d", passed, flow.OnCuringQty)
		}

		goodInc := passed - damaged
		run.GoodQty += goodInc
		run.RejectedQty += damaged
		if locationCode != "" {
			run.LocationCode = locationCode
		}
		run.Status = models.StageOf(&run)
		run.UpdatedBy = userID

		if goodInc > 0 {
			stockRepo := NewStockRepository(tx)
			credit := StockCredit{ItemID: run.FinishedGoodID, Qty: decimal.NewFromInt(int64(goodInc))}
			if err := stockRepo.ApplyStockChanges(nil, []StockCredit{credit}); err != nil {
				return err
			}
		}

		return tx.Save(&run).Error
	})

	if err != nil {
		return nil, err
	}
	return &run, nil
}

// AllocateInternalUse mengalihkan stok jadi ke produk lain (by-product).
// Membuat satu derived run baru berstatus Completed yang menunjuk balik ke
// run sumbernya. GoodQty run sumber TIDAK dikurangi, yang berkurang hanya
// available-nya.
func (r *ProductionRepository) AllocateInternalUse(runID types.SnowflakeID, qty int, targetProductID types.SnowflakeID, locationCode string, userID int) (*models.ProductionRun, error) {
	if qty <= 0 {
		return nil, utils.NewValidationError("quantity must be greater than zero")
	}
	if targetProductID == 0 {
		return nil, utils.NewValidationError("target product is required")
	}

	var derived models.ProductionRun

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var run models.ProductionRun
		if err := tx.Where("id = ?", runID).Take(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		if run.IsDerived() {
			return utils.NewPreconditionError("derived batch cannot be allocated again")
		}

		flow := models.CalculateFlow(&run)
		if qty > flow.AvailableQty {
			return utils.NewPreconditionError("quantity %d exceeds available quantity %d", qty, flow.AvailableQty)
		}

		var target models.ProductMaster
		if err := tx.Where("id = ?", targetProductID).Take(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewValidationError("target product not found")
			}
			return err
		}

		targetItem, err := ensureFinishedGoodItem(tx, &target, userID)
		if err != nil {
			return err
		}

		stockRepo := NewStockRepository(tx)
		credit := StockCredit{ItemID: targetItem.ID, Qty: decimal.NewFromInt(int64(qty))}
		if err := stockRepo.ApplyStockChanges(nil, []StockCredit{credit}); err != nil {
			return err
		}

		run.InternalUseQty += qty
		run.UpdatedBy = userID
		if err := tx.Save(&run).Error; err != nil {
			return err
		}

		batchNo, err := generateBatchNo(tx)
		if err != nil {
			return err
		}

		sourceID := run.ID
		derived = models.ProductionRun{
			ID:               types.SnowflakeID(idgen.GenerateID()),
			BatchNo:          batchNo,
			ProductionDate:   time.Now().Format("2006-01-02"),
			ProductMasterID:  target.ID,
			FinishedGoodID:   targetItem.ID,
			LocationCode:     locationCode,
			QuantityProduced: qty,
			GoodQty:          qty,
			Status:           models.RunStatusCompleted,
			SourceRunID:      &sourceID,
			CreatedBy:        userID,
		}

		return tx.Create(&derived).Error
	})

	if err != nil {
		return nil, err
	}
	return &derived, nil
}

type UpdateRunInput struct {
	ProductionDate string           `json:"production_date"`
	LocationCode   string           `json:"location_code"`
	LabourQty      *int             `json:"labour_qty"`
	LabourRate     *decimal.Decimal `json:"labour_rate"`
}

// UpdateRun hanya boleh selama batch belum punya aktivitas apa pun setelah
// dibuat. Quantity dan resep terkunci karena stok materialnya sudah
// terlanjur didebit saat pembuatan.
func (r *ProductionRepository) UpdateRun(runID types.SnowflakeID, input UpdateRunInput, userID int) (*models.ProductionRun, error) {
	var run models.ProductionRun

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", runID).Take(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		if run.CuringQty > 0 || run.GoodQty > 0 || run.RejectedQty > 0 || run.InternalUseQty > 0 {
			return utils.NewPreconditionError("batch already has activity, only newly created batches can be edited")
		}

		if input.ProductionDate != "" {
			run.ProductionDate = input.ProductionDate
		}
		if input.LocationCode != "" {
			run.LocationCode = input.LocationCode
		}
		if input.LabourQty != nil {
			if *input.LabourQty < 0 {
				return utils.NewValidationError("labour quantity cannot be negative")
			}
			run.LabourQty = *input.LabourQty
		}
		if input.LabourRate != nil {
			if input.LabourRate.IsNegative() {
				return utils.NewValidationError("labour rate cannot be negative")
			}
			run.LabourRate = models.Round2(*input.LabourRate)
		}
		run.LabourCost = models.ComputeLabourCost(run.LabourQty, run.LabourRate)
		run.UpdatedBy = userID

		return tx.Save(&run).Error
	})

	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteRun menghapus run (soft delete) dan ikut menandai payable-nya
// deleted. Stok yang sudah terpakai/terkredit TIDAK dibalikkan: delete
// adalah koreksi administratif atas catatan, bukan pembalikan inventori.
func (r *ProductionRepository) DeleteRun(runID types.SnowflakeID, userID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var run models.ProductionRun
		if err := tx.Where("id = ?", runID).Take(&run).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		// Payable reversed dibiarkan apa adanya, sama seperti aturan
		// SoftDelete di payable repository
		if err := tx.Model(&models.LabourPayable{}).
			Where("run_id = ? AND status <> ?", run.ID, models.PayableStatusReversed).
			Updates(map[string]interface{}{
				"status":     models.PayableStatusDeleted,
				"deleted_by": userID,
			}).Error; err != nil {
			return err
		}

		run.DeletedBy = userID
		if err := tx.Save(&run).Error; err != nil {
			return err
		}

		return tx.Delete(&run).Error
	})
}

// GetAllRuns mengembalikan semua run beserta angka flow turunannya
func (r *ProductionRepository) GetAllRuns() ([]ListProductionRun, error) {
	var runs []models.ProductionRun
	if err := r.db.Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, err
	}

	masterIDs := make([]types.SnowflakeID, 0, len(runs))
	for _, run := range runs {
		masterIDs = append(masterIDs, run.ProductMasterID)
	}

	names := make(map[types.SnowflakeID]string)
	if len(masterIDs) > 0 {
		var masters []models.ProductMaster
		if err := r.db.Where("id IN ?", masterIDs).Find(&masters).Error; err != nil {
			return nil, err
		}
		for _, m := range masters {
			names[m.ID] = m.Name
		}
	}

	result := make([]ListProductionRun, 0, len(runs))
	for _, run := range runs {
		run := run
		result = append(result, ListProductionRun{
			ProductionRun: run,
			ProductName:   names[run.ProductMasterID],
			Stage:         models.StageOf(&run),
			Flow:          models.CalculateFlow(&run),
		})
	}

	return result, nil
}

func (r *ProductionRepository) GetRunByID(runID types.SnowflakeID) (*ListProductionRun, error) {
	var run models.ProductionRun
	if err := r.db.Where("id = ?", runID).Take(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	var master models.ProductMaster
	if err := r.db.Where("id = ?", run.ProductMasterID).Take(&master).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &ListProductionRun{
		ProductionRun: run,
		ProductName:   master.Name,
		Stage:         models.StageOf(&run),
		Flow:          models.CalculateFlow(&run),
	}, nil
}

// GetRunModels dipakai synchronizer payable
func (r *ProductionRepository) GetRunModels() ([]models.ProductionRun, error) {
	var runs []models.ProductionRun
	if err := r.db.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
