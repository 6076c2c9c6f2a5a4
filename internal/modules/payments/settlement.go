package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/gateway"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/locker"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/cart"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/checkout"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/shipping"
)

// ReceiptSender delivers the post-settlement confirmation. Runs outside the
// settlement transaction and is best-effort.
type ReceiptSender interface {
	SendPaymentReceipt(ctx context.Context, ord orders.Order, txn PaymentTransaction) error
}

// SettlementService turns a verified gateway notification into the order's
// settled state, exactly once, whichever ingress path delivered it.
type SettlementService struct {
	db      *gorm.DB
	gw      *gateway.Client
	locks   locker.Locker
	lockTTL time.Duration

	receipts ReceiptSender
	logger   *slog.Logger
	now      func() time.Time
}

func NewSettlementService(db *gorm.DB, gw *gateway.Client, locks locker.Locker, lockTTL time.Duration) *SettlementService {
	return &SettlementService{
		db:      db,
		gw:      gw,
		locks:   locks,
		lockTTL: lockTTL,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

func (s *SettlementService) SetLogger(logger *slog.Logger) { s.logger = logger }
func (s *SettlementService) SetReceipts(r ReceiptSender)   { s.receipts = r }
func (s *SettlementService) SetClock(now func() time.Time) { s.now = now }

// Result is the outcome of one settlement attempt.
type Result struct {
	OrderID       string
	PaymentStatus string
	PaidAt        *time.Time

	// Applied: this call executed the side effects. AlreadySettled: another
	// delivery got there first; the call was a safe no-op.
	Applied        bool
	AlreadySettled bool

	Transaction *PaymentTransaction
}

// Settle runs the full pipeline: verify signature, reconcile amount, take
// the per-order lease, apply the transition and its side effects in one
// transaction. Safe to call any number of times with the same notification.
func (s *SettlementService) Settle(ctx context.Context, params url.Values) (Result, error) {
	n, err := s.gw.VerifyNotification(params)
	if err != nil {
		return Result{}, err
	}

	orderID := n.OrderID()
	var ord orders.Order
	if err := s.db.WithContext(ctx).First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, ErrOrderNotFound
		}
		return Result{}, err
	}

	if err := ReconcileAmount(n.AmountRaw, ord.FinalAmount); err != nil {
		return Result{}, err
	}

	var res Result
	err = s.locks.WithLease(ctx, "settle:order:"+orderID, s.lockTTL, func(ctx context.Context) error {
		var applyErr error
		res, applyErr = s.applyLocked(ctx, n)
		return applyErr
	})
	if err != nil {
		if errors.Is(err, locker.ErrBusy) {
			return Result{}, ErrLockBusy
		}
		return Result{}, err
	}

	if s.receipts != nil && res.Applied && res.PaymentStatus == orders.PaymentStatusPaid && res.Transaction != nil {
		if rerr := s.receipts.SendPaymentReceipt(ctx, ord, *res.Transaction); rerr != nil {
			s.logger.WarnContext(ctx, "payment receipt delivery failed",
				"order_id", orderID, "txn_code", res.Transaction.TransactionCode, "err", rerr)
		}
	}

	return res, err
}

func (s *SettlementService) applyLocked(ctx context.Context, n gateway.Notification) (Result, error) {
	var res Result
	err := checkout.WithTxRetry(ctx, s.db, 3, func(tx *gorm.DB) error {
		var applyErr error
		res, applyErr = s.applyInTx(ctx, tx, n)
		return applyErr
	})

	switch {
	case err == nil:
		if res.Applied {
			s.logger.InfoContext(ctx, "settlement applied",
				"order_id", res.OrderID, "txn_code", n.TxnID, "payment_status", res.PaymentStatus)
		} else if res.AlreadySettled {
			s.logger.InfoContext(ctx, "settlement deduplicated",
				"order_id", res.OrderID, "txn_code", n.TxnID)
		}
	case errors.Is(err, ErrInsufficientStock):
		// A successful gateway transaction that cannot be fulfilled. The
		// paid transition rolled back; operators reconcile by hand.
		s.logger.ErrorContext(ctx, "settlement rolled back: insufficient stock, manual reconciliation required",
			"order_id", n.OrderID(), "txn_code", n.TxnID, "err", err)
	default:
		s.logger.ErrorContext(ctx, "settlement failed",
			"order_id", n.OrderID(), "txn_code", n.TxnID, "err", err)
	}
	return res, err
}

type settleDecision int

const (
	decideApplySuccess settleDecision = iota
	decideApplyFailure
	decideNoopSettled
	decideNoopDuplicateFailure
)

// decideSettlement: idempotency precedes everything else. An order already
// paid absorbs any re-delivery; a failed order absorbs a re-delivered
// failure for a code it has already recorded but still accepts a success
// (different transaction, gateway retry edge case).
func decideSettlement(currentStatus string, success, failureRecorded bool) settleDecision {
	if currentStatus == orders.PaymentStatusPaid {
		return decideNoopSettled
	}
	if success {
		return decideApplySuccess
	}
	if currentStatus == orders.PaymentStatusFailed && failureRecorded {
		return decideNoopDuplicateFailure
	}
	return decideApplyFailure
}

func (s *SettlementService) applyInTx(ctx context.Context, tx *gorm.DB, n gateway.Notification) (Result, error) {
	var ord orders.Order
	if err := checkout.LockForUpdate(tx.WithContext(ctx)).
		First(&ord, "id = ?", n.OrderID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{}, ErrOrderNotFound
		}
		return Result{}, err
	}

	failureRecorded := false
	if !n.Success() && ord.PaymentStatus == orders.PaymentStatusFailed {
		var cnt int64
		if err := tx.WithContext(ctx).Model(&PaymentTransaction{}).
			Where("order_id = ? AND transaction_code = ?", ord.ID, n.TxnID).
			Count(&cnt).Error; err != nil {
			return Result{}, err
		}
		failureRecorded = cnt > 0
	}

	switch decideSettlement(ord.PaymentStatus, n.Success(), failureRecorded) {
	case decideNoopSettled, decideNoopDuplicateFailure:
		return Result{
			OrderID:        ord.ID,
			PaymentStatus:  ord.PaymentStatus,
			PaidAt:         ord.PaidAt,
			AlreadySettled: true,
		}, nil
	case decideApplyFailure:
		return s.applyFailure(ctx, tx, ord, n)
	default:
		return s.applySuccess(ctx, tx, ord, n)
	}
}

func (s *SettlementService) applySuccess(ctx context.Context, tx *gorm.DB, ord orders.Order, n gateway.Notification) (Result, error) {
	now := s.now()
	paidAt := n.PaidAt(now)

	// Second line of defense behind the lease: the transition itself is
	// conditional, so a lost-lock race degrades to AlreadySettled instead
	// of a double settlement.
	upd := tx.WithContext(ctx).Model(&orders.Order{}).
		Where("id = ? AND payment_status <> ?", ord.ID, orders.PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status": orders.PaymentStatusPaid,
			"paid_at":        &paidAt,
			"updated_at":     now,
		})
	if upd.Error != nil {
		return Result{}, upd.Error
	}
	if upd.RowsAffected == 0 {
		return Result{OrderID: ord.ID, PaymentStatus: orders.PaymentStatusPaid, AlreadySettled: true}, nil
	}

	txn, err := s.upsertTransaction(ctx, tx, ord.ID, n, TxnStatusSuccess, &paidAt)
	if err != nil {
		return Result{}, err
	}

	var items []orders.OrderItem
	if err := tx.WithContext(ctx).Find(&items, "order_id = ?", ord.ID).Error; err != nil {
		return Result{}, err
	}
	lines := make([]checkout.StockLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, checkout.StockLine{VariantID: it.VariantID, Qty: it.Quantity})
	}

	if err := checkout.DeductStockInTx(ctx, tx, lines); err != nil {
		var oos *checkout.OutOfStockError
		if errors.As(err, &oos) {
			// Rolls back the whole transaction, paid transition included.
			return Result{}, fmt.Errorf("%w: %w", ErrInsufficientStock, err)
		}
		return Result{}, err
	}

	if ord.UserID != nil {
		_, ids := checkout.MergeLines(lines)
		if err := cart.DeleteForUserVariantsInTx(ctx, tx, *ord.UserID, ids); err != nil {
			return Result{}, err
		}
	}

	if err := shipping.UpdateStatusInTx(ctx, tx, ord.ID, shipping.StatusReadyToShip); err != nil {
		return Result{}, err
	}

	return Result{
		OrderID:       ord.ID,
		PaymentStatus: orders.PaymentStatusPaid,
		PaidAt:        &paidAt,
		Applied:       true,
		Transaction:   &txn,
	}, nil
}

func (s *SettlementService) applyFailure(ctx context.Context, tx *gorm.DB, ord orders.Order, n gateway.Notification) (Result, error) {
	now := s.now()

	txn, err := s.upsertTransaction(ctx, tx, ord.ID, n, TxnStatusFailed, nil)
	if err != nil {
		return Result{}, err
	}

	upd := tx.WithContext(ctx).Model(&orders.Order{}).
		Where("id = ? AND payment_status <> ?", ord.ID, orders.PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status": orders.PaymentStatusFailed,
			"updated_at":     now,
		})
	if upd.Error != nil {
		return Result{}, upd.Error
	}
	if upd.RowsAffected == 0 {
		return Result{OrderID: ord.ID, PaymentStatus: orders.PaymentStatusPaid, AlreadySettled: true}, nil
	}

	// No stock or cart mutation on the failure branch.
	if err := shipping.UpdateStatusInTx(ctx, tx, ord.ID, shipping.StatusCanceled); err != nil {
		return Result{}, err
	}

	return Result{
		OrderID:       ord.ID,
		PaymentStatus: orders.PaymentStatusFailed,
		Applied:       true,
		Transaction:   &txn,
	}, nil
}

func (s *SettlementService) upsertTransaction(ctx context.Context, tx *gorm.DB, orderID string, n gateway.Notification, status string, paidAt *time.Time) (PaymentTransaction, error) {
	payload, err := json.Marshal(flattenParams(n.Params))
	if err != nil {
		return PaymentTransaction{}, err
	}

	now := s.now()
	pt := PaymentTransaction{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		TransactionCode: n.TxnID,
		Amount:          NotifiedAmount(n.AmountRaw),
		Status:          status,
		BankCode:        n.BankCode,
		PayloadJSON:     datatypes.JSON(payload),
		PaidAt:          paidAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := tx.WithContext(ctx).Create(&pt).Error; err != nil {
		if !isDup(err) {
			return PaymentTransaction{}, err
		}
		// same (order_id, transaction_code) delivered before: refresh
		if err := tx.WithContext(ctx).Model(&PaymentTransaction{}).
			Where("order_id = ? AND transaction_code = ?", orderID, n.TxnID).
			Updates(map[string]any{
				"status":       status,
				"amount":       pt.Amount,
				"bank_code":    pt.BankCode,
				"payload_json": pt.PayloadJSON,
				"paid_at":      paidAt,
				"updated_at":   now,
			}).Error; err != nil {
			return PaymentTransaction{}, err
		}
		var existing PaymentTransaction
		if err := tx.WithContext(ctx).
			First(&existing, "order_id = ? AND transaction_code = ?", orderID, n.TxnID).Error; err != nil {
			return PaymentTransaction{}, err
		}
		return existing, nil
	}
	return pt, nil
}

func flattenParams(params url.Values) map[string]string {
	out := make(map[string]string, len(params))
	for k := range params {
		out[k] = params.Get(k)
	}
	return out
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
