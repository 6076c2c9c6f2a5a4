package receipts

import (
	"context"
	"strings"
	"testing"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/mailer"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
)

func TestSendPaymentReceipt(t *testing.T) {
	ctx := context.Background()

	ord := orders.Order{
		ID:          "3f1c2a44-9c1e-4b7a-8d2f-0a1b2c3d4e5f",
		Email:       "buyer@example.test",
		FinalAmount: 150000,
		Currency:    "VND",
	}
	txn := payments.PaymentTransaction{
		TransactionCode: "GW14350561",
		Amount:          150000,
		Status:          payments.TxnStatusSuccess,
	}

	t.Run("delivers a receipt to the order email", func(t *testing.T) {
		mock := &mailer.Mock{}
		svc := NewService(mock, "no-reply@shop.test", "Shop")

		if err := svc.SendPaymentReceipt(ctx, ord, txn); err != nil {
			t.Fatalf("SendPaymentReceipt: %v", err)
		}
		if len(mock.Sent) != 1 {
			t.Fatalf("expected 1 email, got %d", len(mock.Sent))
		}

		e := mock.Sent[0]
		if e.To[0] != ord.Email {
			t.Fatalf("recipient: %v", e.To)
		}
		if !strings.Contains(e.TextBody, "150000 VND") {
			t.Fatalf("amount missing from body: %q", e.TextBody)
		}
		if !strings.Contains(e.TextBody, txn.TransactionCode) {
			t.Fatalf("transaction code missing from body: %q", e.TextBody)
		}
	})

	t.Run("skips orders without an email", func(t *testing.T) {
		mock := &mailer.Mock{}
		svc := NewService(mock, "no-reply@shop.test", "Shop")

		noEmail := ord
		noEmail.Email = ""
		if err := svc.SendPaymentReceipt(ctx, noEmail, txn); err != nil {
			t.Fatalf("SendPaymentReceipt: %v", err)
		}
		if len(mock.Sent) != 0 {
			t.Fatalf("expected no email, got %d", len(mock.Sent))
		}
	})
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{150000, "VND", "150000 VND"},
		{150000, "USD", "1500.00 USD"},
		{999, "EUR", "9.99 EUR"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.minor, c.currency); got != c.want {
			t.Errorf("FormatAmount(%d, %s) = %q, want %q", c.minor, c.currency, got, c.want)
		}
	}
}
