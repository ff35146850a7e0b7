package models

import (
	"factory-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PayableStatusPending  = "pending"
	PayableStatusApproved = "approved"
	PayableStatusPartial  = "partial"
	PayableStatusPaid     = "paid"
	PayableStatusReversed = "reversed"
	PayableStatusDeleted  = "deleted"
)

// LabourPayable: hutang upah satu batch produksi. Satu run selalu punya
// maksimal satu payable (unique index di run_id). Tidak pernah dihapus fisik,
// hanya di-flag deleted supaya jejak audit tetap ada.
type LabourPayable struct {
	gorm.Model
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	RunID         types.SnowflakeID `json:"run_id" gorm:"uniqueIndex"`
	AmountDue     decimal.Decimal   `json:"amount_due" gorm:"type:decimal(20,2);default:0"`
	AmountPaid    decimal.Decimal   `json:"amount_paid" gorm:"type:decimal(20,2);default:0"`
	AmountPending decimal.Decimal   `json:"amount_pending" gorm:"type:decimal(20,2);default:0"`
	Status        string            `json:"status" gorm:"default:'pending'"`
	ReverseReason string            `json:"reverse_reason"`
	ProducedDate  string            `json:"produced_date"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

// PaymentTransaction: append-only, tidak pernah di-update atau dihapus.
// Reversal hanya mereset payable, history pembayaran tetap utuh.
type PaymentTransaction struct {
	gorm.Model
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	PayableID   types.SnowflakeID `json:"payable_id" gorm:"index"`
	RunID       types.SnowflakeID `json:"run_id" gorm:"index"`
	Amount      decimal.Decimal   `json:"amount" gorm:"type:decimal(20,2);default:0"`
	PaymentDate string            `json:"payment_date"`
	CreatedBy   int
}

// Round2: semua field uang dibulatkan half-up 2 desimal di setiap penulisan,
// supaya tidak ada drift akumulasi dari pembayaran parsial berulang.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PendingOf = max(due − paid, 0)
func PendingOf(due, paid decimal.Decimal) decimal.Decimal {
	pending := Round2(due.Sub(paid))
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}
