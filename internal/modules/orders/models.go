package orders

import "time"

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

type Order struct {
	ID     string  `gorm:"type:char(36);primaryKey"`
	UserID *string `gorm:"type:char(36);index:ix_orders_user_id"`
	Email  string  `gorm:"type:varchar(255);not null"`

	FinalAmount int64  `gorm:"not null"` // minor units
	Currency    string `gorm:"type:char(3);not null"`

	// unpaid -> paid (terminal) or unpaid -> failed; a failed order may
	// still settle to paid from a different gateway transaction.
	PaymentStatus string     `gorm:"type:varchar(16);not null;index:ix_orders_payment_status"`
	PaidAt        *time.Time `gorm:"type:datetime(3)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         string `gorm:"type:char(36);primaryKey"`
	OrderID    string `gorm:"type:char(36);not null;index:ix_order_items_order_id"`
	VariantID  uint   `gorm:"not null"`
	Quantity   int    `gorm:"not null"`
	UnitAmount int64  `gorm:"not null"` // minor units

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderItem) TableName() string { return "order_items" }
