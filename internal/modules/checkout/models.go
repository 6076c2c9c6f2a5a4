package checkout

import "time"

// ProductVariant is the sellable unit whose stock the settlement executor
// deducts. Catalog attributes live outside the settlement scope; only the
// stock counter matters here.
type ProductVariant struct {
	ID    uint   `gorm:"primaryKey"`
	SKU   string `gorm:"type:varchar(64);not null;uniqueIndex:ux_product_variants_sku"`
	Stock int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (ProductVariant) TableName() string { return "product_variants" }
