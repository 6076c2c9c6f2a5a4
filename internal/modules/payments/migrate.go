package payments

import (
	"gorm.io/gorm"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/cart"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/checkout"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/shipping"
)

// AutoMigrate creates every table the settlement pipeline reads or writes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orders.Order{},
		&orders.OrderItem{},
		&checkout.ProductVariant{},
		&PaymentTransaction{},
		&cart.CartItem{},
		&shipping.ShippingRecord{},
	)
}
