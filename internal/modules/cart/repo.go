package cart

import (
	"context"

	"gorm.io/gorm"
)

// DeleteForUserVariantsInTx removes the user's cart rows for the purchased
// variants. Defensive cleanup after settlement; checkout already clears the
// cart on order creation.
func DeleteForUserVariantsInTx(ctx context.Context, tx *gorm.DB, userID string, variantIDs []uint) error {
	if userID == "" || len(variantIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("user_id = ? AND variant_id IN ?", userID, variantIDs).
		Delete(&CartItem{}).Error
}
