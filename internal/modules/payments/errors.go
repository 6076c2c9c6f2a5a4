package payments

import "errors"

var (
	ErrOrderNotFound     = errors.New("payments: order not found")
	ErrAmountMismatch    = errors.New("payments: notified amount does not match order")
	ErrLockBusy          = errors.New("payments: settlement already in flight for order")
	ErrInsufficientStock = errors.New("payments: insufficient stock at settlement")
)
