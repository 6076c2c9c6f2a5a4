package payments

import (
	"net/url"
	"testing"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
)

func TestDecideSettlement(t *testing.T) {
	cases := []struct {
		name            string
		currentStatus   string
		success         bool
		failureRecorded bool
		want            settleDecision
	}{
		{"unpaid + success applies", orders.PaymentStatusUnpaid, true, false, decideApplySuccess},
		{"unpaid + failure applies", orders.PaymentStatusUnpaid, false, false, decideApplyFailure},
		{"paid absorbs re-delivered success", orders.PaymentStatusPaid, true, false, decideNoopSettled},
		{"paid absorbs re-delivered failure", orders.PaymentStatusPaid, false, false, decideNoopSettled},
		{"paid absorbs failure even with the code on file", orders.PaymentStatusPaid, false, true, decideNoopSettled},
		{"failed + same failure code is a no-op", orders.PaymentStatusFailed, false, true, decideNoopDuplicateFailure},
		{"failed + new failure code re-applies", orders.PaymentStatusFailed, false, false, decideApplyFailure},
		{"failed order still accepts a later success", orders.PaymentStatusFailed, true, false, decideApplySuccess},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := decideSettlement(c.currentStatus, c.success, c.failureRecorded); got != c.want {
				t.Fatalf("decideSettlement(%q, %v, %v) = %d, want %d",
					c.currentStatus, c.success, c.failureRecorded, got, c.want)
			}
		})
	}
}

func TestFlattenParams(t *testing.T) {
	p := url.Values{}
	p.Set("txn_ref", "order-1_123")
	p.Set("rsp_code", "00")
	p.Add("dup", "first")
	p.Add("dup", "second")

	got := flattenParams(p)
	if got["txn_ref"] != "order-1_123" || got["rsp_code"] != "00" {
		t.Fatalf("params lost in flatten: %v", got)
	}
	if got["dup"] != "first" {
		t.Fatalf("expected first value for repeated key, got %q", got["dup"])
	}
}
