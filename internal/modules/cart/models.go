package cart

import "time"

type CartItem struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	UserID    string `gorm:"type:char(36);not null;index:ix_cart_items_user_id"`
	VariantID uint   `gorm:"not null"`
	Quantity  int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (CartItem) TableName() string { return "cart_items" }
