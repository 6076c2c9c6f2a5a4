package payments

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TxnStatusSuccess = "success"
	TxnStatusFailed  = "failed"
)

// PaymentTransaction is one row per distinct gateway transaction code for an
// order. Re-delivery of the same code upserts instead of duplicating.
type PaymentTransaction struct {
	ID              string `gorm:"type:char(36);primaryKey"`
	OrderID         string `gorm:"type:char(36);not null;uniqueIndex:ux_payment_transactions_order_txn,priority:1"`
	TransactionCode string `gorm:"type:varchar(128);not null;uniqueIndex:ux_payment_transactions_order_txn,priority:2"`

	Amount   int64  `gorm:"not null"` // minor units after wire-scale conversion
	Status   string `gorm:"type:varchar(16);not null"`
	BankCode string `gorm:"type:varchar(32)"`

	// Full original notification field set, for audit.
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	PaidAt    *time.Time `gorm:"type:datetime(3)"`
	CreatedAt time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time  `gorm:"type:datetime(3);not null"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
