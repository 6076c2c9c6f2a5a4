package payments

import (
	"github.com/shopspring/decimal"
)

// The gateway sends amounts as minor units scaled by 100.
const wireAmountScale = 100

// amountTolerance absorbs integer rounding from the wire-scale conversion
// only; it is not a business discount allowance.
const amountTolerance = 1

// NotifiedAmount converts a wire amount back to the store's minor unit.
func NotifiedAmount(raw int64) int64 {
	return decimal.NewFromInt(raw).
		DivRound(decimal.NewFromInt(wireAmountScale), 0).
		IntPart()
}

// ReconcileAmount confirms the notified amount matches the order's payable
// amount. Guards against a forged or mis-routed notification referencing the
// wrong order.
func ReconcileAmount(notifiedRaw, expected int64) error {
	diff := NotifiedAmount(notifiedRaw) - expected
	if diff < 0 {
		diff = -diff
	}
	if diff > amountTolerance {
		return ErrAmountMismatch
	}
	return nil
}
