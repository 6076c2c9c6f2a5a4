package payments

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/shipping"
)

type TransactionSummary struct {
	TransactionCode string     `json:"transaction_code"`
	Status          string     `json:"status"`
	Amount          int64      `json:"amount"`
	BankCode        string     `json:"bank_code,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}

// StatusView is what the storefront polls while waiting for settlement.
// Display only; never a source of truth for other components.
type StatusView struct {
	OrderID           string              `json:"order_id"`
	PaymentStatus     string              `json:"payment_status"`
	PaidAt            *time.Time          `json:"paid_at,omitempty"`
	ShippingStatus    string              `json:"shipping_status,omitempty"`
	LatestTransaction *TransactionSummary `json:"latest_transaction,omitempty"`
}

func (s *SettlementService) Status(ctx context.Context, orderID string) (StatusView, error) {
	var ord orders.Order
	if err := s.db.WithContext(ctx).First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusView{}, ErrOrderNotFound
		}
		return StatusView{}, err
	}

	view := StatusView{
		OrderID:       ord.ID,
		PaymentStatus: ord.PaymentStatus,
		PaidAt:        ord.PaidAt,
	}

	var rec shipping.ShippingRecord
	err := s.db.WithContext(ctx).First(&rec, "order_id = ?", orderID).Error
	switch {
	case err == nil:
		view.ShippingStatus = rec.ShippingStatus
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return StatusView{}, err
	}

	var txn PaymentTransaction
	err = s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("updated_at DESC").
		First(&txn).Error
	switch {
	case err == nil:
		view.LatestTransaction = &TransactionSummary{
			TransactionCode: txn.TransactionCode,
			Status:          txn.Status,
			Amount:          txn.Amount,
			BankCode:        txn.BankCode,
			PaidAt:          txn.PaidAt,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return StatusView{}, err
	}

	return view, nil
}
