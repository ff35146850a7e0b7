package repositories_test

import (
	"strings"
	"testing"

	"factory-app/models"
	"factory-app/repositories"
	"factory-app/types"
	"factory-app/utils"
)

func TestCreateRunsDebitsCombinedRequirement(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1.5"})
	blockB := seedProduct(t, db, "BLK-B", "Block B", "3.00", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)

	// Baris pertama butuh 60, baris kedua 50. Masing-masing cukup terhadap
	// stok 100, tapi total gabungan 110 harus ditolak.
	_, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 40},
		{ProductMasterID: blockB.ID, Quantity: 50},
	}, 1)

	if !utils.IsInsufficientStock(err) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	if qty := materialQty(t, db, cement.ID); qty.String() != "100" {
		t.Errorf("stock after rejected batch = %s, want 100", qty.String())
	}

	var count int64
	db.Model(&models.ProductionRun{}).Count(&count)
	if count != 0 {
		t.Errorf("runs created = %d, want 0", count)
	}
}

func TestCreateRunsHappyPath(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1.5"})

	prodRepo := repositories.NewProductionRepository(db)

	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 40},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	run := runs[0]
	if !strings.HasPrefix(run.BatchNo, "PB") {
		t.Errorf("batch no = %q, want PB prefix", run.BatchNo)
	}
	if run.Status != models.RunStatusStarted {
		t.Errorf("status = %q, want %q", run.Status, models.RunStatusStarted)
	}
	if run.LabourCost.String() != "100" {
		t.Errorf("labour cost = %s, want 100", run.LabourCost.String())
	}

	// 40 × 1.5 = 60 cement terpakai
	if qty := materialQty(t, db, cement.ID); qty.String() != "40" {
		t.Errorf("cement after batch = %s, want 40", qty.String())
	}

	// Item finished good otomatis dibuat dengan stok 0
	var item models.InventoryItem
	if err := db.Where("name = ?", "Block A").Take(&item).Error; err != nil {
		t.Fatalf("finished good item not created: %v", err)
	}
	if item.Category != models.CategoryFinishedGood {
		t.Errorf("category = %q, want %q", item.Category, models.CategoryFinishedGood)
	}
	if !item.Quantity.IsZero() {
		t.Errorf("finished good stock = %s, want 0", item.Quantity.String())
	}
	if run.FinishedGoodID != item.ID {
		t.Errorf("run finished good id = %d, want %d", int64(run.FinishedGoodID), int64(item.ID))
	}
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})
	paver := seedProduct(t, db, "PVR-Z", "Zigzag Paver", "1.75", nil)

	prodRepo := repositories.NewProductionRepository(db)

	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 50},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}
	runID := runs[0].ID

	// Pindah seluruh hasil produksi ke curing
	run, err := prodRepo.MoveToCuring(runID, 50, "CURE-01", 1)
	if err != nil {
		t.Fatalf("MoveToCuring: %v", err)
	}
	if run.Status != models.RunStatusOnCuring {
		t.Errorf("status = %q, want %q", run.Status, models.RunStatusOnCuring)
	}
	if run.CuringStartAt == nil {
		t.Error("curing start timestamp not recorded")
	}

	// Angkat dari curing: 50 diangkat, 5 rusak → 45 masuk stok jadi
	run, err = prodRepo.CompleteCuring(runID, 50, 5, "STORE-01", 1)
	if err != nil {
		t.Fatalf("CompleteCuring: %v", err)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("status = %q, want %q", run.Status, models.RunStatusCompleted)
	}

	if qty := materialQty(t, db, run.FinishedGoodID); qty.String() != "45" {
		t.Errorf("finished good stock = %s, want 45", qty.String())
	}

	flow := models.CalculateFlow(run)
	if flow.AvailableQty != 45 {
		t.Errorf("available = %d, want 45", flow.AvailableQty)
	}

	// Alihkan 10 untuk pemakaian internal sebagai produk lain
	derived, err := prodRepo.AllocateInternalUse(runID, 10, paver.ID, "STORE-01", 1)
	if err != nil {
		t.Fatalf("AllocateInternalUse: %v", err)
	}
	if !derived.IsDerived() {
		t.Error("derived run does not reference its source")
	}
	if derived.Status != models.RunStatusCompleted {
		t.Errorf("derived status = %q, want %q", derived.Status, models.RunStatusCompleted)
	}
	if derived.QuantityProduced != 10 || derived.GoodQty != 10 {
		t.Errorf("derived quantities = %d/%d, want 10/10", derived.QuantityProduced, derived.GoodQty)
	}

	source, err := prodRepo.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID: %v", err)
	}
	if source.Flow.AvailableQty != 35 {
		t.Errorf("source available after allocation = %d, want 35", source.Flow.AvailableQty)
	}

	if qty := materialQty(t, db, derived.FinishedGoodID); qty.String() != "10" {
		t.Errorf("target product stock = %s, want 10", qty.String())
	}

	// Batch turunan tidak boleh dialokasikan lagi jadi batch turunan baru
	if _, err := prodRepo.AllocateInternalUse(derived.ID, 5, blockA.ID, "", 1); !utils.IsPrecondition(err) {
		t.Errorf("allocate on derived run: err = %v, want PreconditionError", err)
	}

	// Curing juga tetap tertutup untuk batch turunan
	if _, err := prodRepo.MoveToCuring(derived.ID, 5, "", 1); !utils.IsPrecondition(err) {
		t.Errorf("move derived run: err = %v, want PreconditionError", err)
	}
}

func TestCreateRunsRejectsRawMaterialNameCollision(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	// Bahan baku yang namanya sama persis dengan nama produk
	seedMaterial(t, db, "Block A", "500")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)

	_, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 10},
	}, 1)
	if !utils.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	// Tidak ada run yang terlanjur menunjuk ke item bahan baku
	var count int64
	db.Model(&models.ProductionRun{}).Count(&count)
	if count != 0 {
		t.Errorf("runs created = %d, want 0", count)
	}
	if qty := materialQty(t, db, cement.ID); qty.String() != "100" {
		t.Errorf("cement after rejected batch = %s, want 100", qty.String())
	}
}

func TestMoveToCuringOverWaitingRejected(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)
	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 30},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}

	if _, err := prodRepo.MoveToCuring(runs[0].ID, 31, "", 1); !utils.IsPrecondition(err) {
		t.Errorf("err = %v, want PreconditionError", err)
	}
}

func TestCompleteCuringOverOnCuringRejected(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)
	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 30},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}

	if _, err := prodRepo.MoveToCuring(runs[0].ID, 20, "", 1); err != nil {
		t.Fatalf("MoveToCuring: %v", err)
	}

	if _, err := prodRepo.CompleteCuring(runs[0].ID, 21, 0, "", 1); !utils.IsPrecondition(err) {
		t.Errorf("err = %v, want PreconditionError", err)
	}
}

func TestUpdateRunLockedAfterActivity(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)
	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 30},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}

	// Sebelum ada aktivitas masih boleh diedit
	newQty := 25
	run, err := prodRepo.UpdateRun(runs[0].ID, repositories.UpdateRunInput{LabourQty: &newQty}, 1)
	if err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}
	if run.LabourCost.String() != "62.5" {
		t.Errorf("labour cost = %s, want 62.5", run.LabourCost.String())
	}

	if _, err := prodRepo.MoveToCuring(runs[0].ID, 10, "", 1); err != nil {
		t.Fatalf("MoveToCuring: %v", err)
	}

	if _, err := prodRepo.UpdateRun(runs[0].ID, repositories.UpdateRunInput{LabourQty: &newQty}, 1); !utils.IsPrecondition(err) {
		t.Errorf("err = %v, want PreconditionError", err)
	}
}

func TestDeleteRunMarksPayableDeleted(t *testing.T) {
	db := openTestDB(t)

	cement := seedMaterial(t, db, "Cement", "100")
	blockA := seedProduct(t, db, "BLK-A", "Block A", "2.50", map[types.SnowflakeID]string{cement.ID: "1"})

	prodRepo := repositories.NewProductionRepository(db)
	payableRepo := repositories.NewPayableRepository(db)

	runs, err := prodRepo.CreateRuns("2026-08-01", "PROD-01", []repositories.ProductionLine{
		{ProductMasterID: blockA.ID, Quantity: 30},
	}, 1)
	if err != nil {
		t.Fatalf("CreateRuns: %v", err)
	}

	if err := payableRepo.SyncWithRuns(runs); err != nil {
		t.Fatalf("SyncWithRuns: %v", err)
	}

	if err := prodRepo.DeleteRun(runs[0].ID, 1); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	// Run tidak muncul lagi di listing (soft delete)
	if _, err := prodRepo.GetRunByID(runs[0].ID); err == nil {
		t.Error("deleted run still visible")
	}

	var payable models.LabourPayable
	if err := db.Where("run_id = ?", runs[0].ID).Take(&payable).Error; err != nil {
		t.Fatalf("payable not found: %v", err)
	}
	if payable.Status != models.PayableStatusDeleted {
		t.Errorf("payable status = %q, want %q", payable.Status, models.PayableStatusDeleted)
	}
}
