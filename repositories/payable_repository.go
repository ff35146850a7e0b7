package repositories

import (
	"errors"
	"time"

	"factory-app/config"
	"factory-app/controllers/idgen"
	"factory-app/models"
	"factory-app/types"
	"factory-app/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayableRepository struct {
	db *gorm.DB
}

func NewPayableRepository(db *gorm.DB) *PayableRepository {
	return &PayableRepository{db: db}
}

type ListLabourPayable struct {
	models.LabourPayable
	BatchNo     string `json:"batch_no"`
	ProductName string `json:"product_name"`
}

// refreshForRun menyamakan amountDue payable dengan labour cost run-nya.
// Kalau payable belum ada dibuat pending, kalau sudah ada HANYA amountDue
// (plus pending hasil hitung ulang) yang ditulis. amountPaid, status dan
// history pembayaran tidak pernah disentuh dari sini, jadi refresh aman
// dipanggil berulang kali.
func refreshForRun(tx *gorm.DB, run *models.ProductionRun) error {
	due := models.Round2(run.LabourCost)

	var payable models.LabourPayable
	err := tx.Where("run_id = ?", run.ID).Take(&payable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		payable = models.LabourPayable{
			ID:            types.SnowflakeID(idgen.GenerateID()),
			RunID:         run.ID,
			AmountDue:     due,
			AmountPaid:    decimal.Zero,
			AmountPending: due,
			Status:        models.PayableStatusPending,
			ProducedDate:  run.ProductionDate,
			CreatedBy:     run.CreatedBy,
		}
		return tx.Create(&payable).Error
	}
	if err != nil {
		return err
	}

	if payable.AmountDue.Equal(due) {
		return nil
	}

	return tx.Model(&payable).Updates(map[string]interface{}{
		"amount_due":     due,
		"amount_pending": models.PendingOf(due, payable.AmountPaid),
	}).Error
}

// SyncWithRuns dipanggil setiap kali daftar run dimuat. Ini satu-satunya
// jalur pembuatan payable, sehingga korespondensi run↔payable selalu 1:1.
func (r *PayableRepository) SyncWithRuns(runs []models.ProductionRun) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range runs {
			if err := refreshForRun(tx, &runs[i]); err != nil {
				config.LogError(config.GetLogger(), "repositories", "SyncWithRuns",
					"refresh payable for run", runs[i].BatchNo, err)
				return err
			}
		}
		return nil
	})
}

func (r *PayableRepository) getForUpdate(tx *gorm.DB, payableID types.SnowflakeID) (*models.LabourPayable, error) {
	var payable models.LabourPayable
	if err := tx.Where("id = ?", payableID).Take(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &payable, nil
}

// Approve: pending → approved, tanpa efek uang
func (r *PayableRepository) Approve(payableID types.SnowflakeID, userID int) (*models.LabourPayable, error) {
	var result *models.LabourPayable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		payable, err := r.getForUpdate(tx, payableID)
		if err != nil {
			return err
		}

		if payable.Status != models.PayableStatusPending {
			return utils.NewPreconditionError("only pending payables can be approved, current status: %s", payable.Status)
		}

		payable.Status = models.PayableStatusApproved
		payable.UpdatedBy = userID
		result = payable
		return tx.Save(payable).Error
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pay mencatat satu pembayaran: append satu PaymentTransaction, naikkan
// amountPaid, hitung ulang pending dan status, semuanya satu unit atomik.
// Pembayaran tidak pernah di-retry otomatis.
func (r *PayableRepository) Pay(payableID types.SnowflakeID, amount decimal.Decimal, userID int) (*models.LabourPayable, error) {
	if !amount.IsPositive() {
		return nil, utils.NewValidationError("payment amount must be greater than zero")
	}

	var result *models.LabourPayable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		payable, err := r.getForUpdate(tx, payableID)
		if err != nil {
			return err
		}

		if payable.Status != models.PayableStatusApproved && payable.Status != models.PayableStatusPartial {
			return utils.NewPreconditionError("payable must be approved before payment, current status: %s", payable.Status)
		}

		amount = models.Round2(amount)
		if amount.GreaterThan(payable.AmountPending) {
			return utils.NewPreconditionError("amount %s exceeds pending amount %s", amount.String(), payable.AmountPending.String())
		}

		paymentTx := models.PaymentTransaction{
			ID:          types.SnowflakeID(idgen.GenerateID()),
			PayableID:   payable.ID,
			RunID:       payable.RunID,
			Amount:      amount,
			PaymentDate: time.Now().Format("2006-01-02"),
			CreatedBy:   userID,
		}
		if err := tx.Create(&paymentTx).Error; err != nil {
			return err
		}

		payable.AmountPaid = models.Round2(payable.AmountPaid.Add(amount))
		payable.AmountPending = models.PendingOf(payable.AmountDue, payable.AmountPaid)
		if payable.AmountPending.IsZero() {
			payable.Status = models.PayableStatusPaid
		} else {
			payable.Status = models.PayableStatusPartial
		}
		payable.UpdatedBy = userID

		result = payable
		return tx.Save(payable).Error
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reverse membatalkan pembayaran yang sudah tercatat: amountPaid kembali 0,
// status jadi reversed. History PaymentTransaction TIDAK dihapus.
func (r *PayableRepository) Reverse(payableID types.SnowflakeID, reason string, userID int) (*models.LabourPayable, error) {
	var result *models.LabourPayable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		payable, err := r.getForUpdate(tx, payableID)
		if err != nil {
			return err
		}

		if !payable.AmountPaid.IsPositive() {
			return utils.NewPreconditionError("nothing to reverse, no payment recorded")
		}

		payable.AmountPaid = decimal.Zero
		payable.AmountPending = payable.AmountDue
		payable.Status = models.PayableStatusReversed
		payable.ReverseReason = reason
		payable.UpdatedBy = userID

		result = payable
		return tx.Save(payable).Error
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateAmountDue hanya boleh selama belum ada pembayaran sama sekali
func (r *PayableRepository) UpdateAmountDue(payableID types.SnowflakeID, amount decimal.Decimal, userID int) (*models.LabourPayable, error) {
	if amount.IsNegative() {
		return nil, utils.NewValidationError("amount due cannot be negative")
	}

	var result *models.LabourPayable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		payable, err := r.getForUpdate(tx, payableID)
		if err != nil {
			return err
		}

		if payable.AmountPaid.IsPositive() {
			return utils.NewPreconditionError("amount due is locked once a payment has been recorded")
		}

		payable.AmountDue = models.Round2(amount)
		payable.AmountPending = payable.AmountDue
		payable.UpdatedBy = userID

		result = payable
		return tx.Save(payable).Error
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete menandai payable deleted, record tetap ada untuk audit
func (r *PayableRepository) SoftDelete(payableID types.SnowflakeID, userID int) (*models.LabourPayable, error) {
	var result *models.LabourPayable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		payable, err := r.getForUpdate(tx, payableID)
		if err != nil {
			return err
		}

		if payable.Status == models.PayableStatusReversed {
			return utils.NewPreconditionError("reversed payables cannot be deleted")
		}

		payable.Status = models.PayableStatusDeleted
		payable.DeletedBy = userID

		result = payable
		return tx.Save(payable).Error
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PayableRepository) GetAllPayables() ([]ListLabourPayable, error) {
	var payables []models.LabourPayable
	if err := r.db.Order("created_at DESC").Find(&payables).Error; err != nil {
		return nil, err
	}

	runIDs := make([]types.SnowflakeID, 0, len(payables))
	for _, p := range payables {
		runIDs = append(runIDs, p.RunID)
	}

	type runInfo struct {
		BatchNo     string
		ProductName string
	}
	info := make(map[types.SnowflakeID]runInfo)

	if len(runIDs) > 0 {
		var rows []struct {
			ID          types.SnowflakeID
			BatchNo     string
			ProductName string
		}
		sql := `SELECT r.id, r.batch_no, m.name as product_name
			FROM production_runs r
			LEFT JOIN product_masters m ON r.product_master_id = m.id
			WHERE r.id IN ?`
		if err := r.db.Raw(sql, runIDs).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			info[row.ID] = runInfo{BatchNo: row.BatchNo, ProductName: row.ProductName}
		}
	}

	result := make([]ListLabourPayable, 0, len(payables))
	for _, p := range payables {
		result = append(result, ListLabourPayable{
			LabourPayable: p,
			BatchNo:       info[p.RunID].BatchNo,
			ProductName:   info[p.RunID].ProductName,
		})
	}

	return result, nil
}

// GetPayments mengembalikan history pembayaran satu payable, urut waktu
func (r *PayableRepository) GetPayments(payableID types.SnowflakeID) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	if err := r.db.Where("payable_id = ?", payableID).Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
