package shipping

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UpdateStatusInTx moves the order's shipping record; runs inside the
// settlement transaction. Every order carries exactly one record, so zero
// affected rows is a storage error, not a no-op.
func UpdateStatusInTx(ctx context.Context, tx *gorm.DB, orderID, status string) error {
	res := tx.WithContext(ctx).Model(&ShippingRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"shipping_status": status,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shipping: no record for order %s: %w", orderID, gorm.ErrRecordNotFound)
	}
	return nil
}
