package shipping

import "time"

const (
	StatusPending     = "pending"
	StatusReadyToShip = "ready_to_ship"
	StatusCanceled    = "canceled"
)

type ShippingRecord struct {
	ID      string `gorm:"type:char(36);primaryKey"`
	OrderID string `gorm:"type:char(36);not null;uniqueIndex:ux_shipping_records_order_id"`

	ShippingStatus string `gorm:"type:varchar(32);not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (ShippingRecord) TableName() string { return "shipping_records" }
