package gateway

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

const testSecret = "topsecret"

func signedParams(t *testing.T, mutate func(url.Values)) url.Values {
	t.Helper()
	p := url.Values{}
	p.Set(ParamTxnRef, "3f1c2a44-9c1e-4b7a-8d2f-0a1b2c3d4e5f_1735689600")
	p.Set(ParamRspCode, "00")
	p.Set(ParamAmount, "15000000")
	p.Set(ParamTxnID, "GW14350561")
	p.Set(ParamBankCode, "NCB")
	p.Set(ParamPayDate, "20250101103000")
	p.Set(ParamOrderInfo, "order payment")
	if mutate != nil {
		mutate(p)
	}
	p.Set(ParamSignature, Sign(p, testSecret))
	return p
}

func TestCanonicalMessage(t *testing.T) {
	t.Run("sorts keys and url-encodes values", func(t *testing.T) {
		p := url.Values{}
		p.Set("b", "2")
		p.Set("a", "hello world")
		p.Set("c", "x&y=z")

		got := canonicalMessage(p)
		want := "a=hello+world&b=2&c=x%26y%3Dz"
		if got != want {
			t.Fatalf("canonical message mismatch:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("excludes the signature field", func(t *testing.T) {
		p := url.Values{}
		p.Set("a", "1")
		p.Set(ParamSignature, "deadbeef")
		if got := canonicalMessage(p); got != "a=1" {
			t.Fatalf("signature field leaked into canonical message: %q", got)
		}
	})

	t.Run("skips empty values", func(t *testing.T) {
		p := url.Values{}
		p.Set("a", "1")
		p.Set("empty", "")
		if got := canonicalMessage(p); got != "a=1" {
			t.Fatalf("empty value not skipped: %q", got)
		}
	})
}

func TestVerifySignature(t *testing.T) {
	t.Run("accepts a correctly signed parameter set", func(t *testing.T) {
		p := signedParams(t, nil)
		if !VerifySignature(p, testSecret) {
			t.Fatal("expected valid signature")
		}
	})

	t.Run("accepts uppercase hex signatures", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Set(ParamSignature, strings.ToUpper(p.Get(ParamSignature)))
		if !VerifySignature(p, testSecret) {
			t.Fatal("expected uppercase hex to verify")
		}
	})

	t.Run("rejects a tampered amount", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Set(ParamAmount, "100")
		if VerifySignature(p, testSecret) {
			t.Fatal("tampered params must not verify")
		}
	})

	t.Run("rejects a missing signature", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Del(ParamSignature)
		if VerifySignature(p, testSecret) {
			t.Fatal("missing signature must not verify")
		}
	})

	t.Run("rejects a non-hex signature", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Set(ParamSignature, "not-hex!")
		if VerifySignature(p, testSecret) {
			t.Fatal("garbage signature must not verify")
		}
	})

	t.Run("rejects the wrong secret", func(t *testing.T) {
		p := signedParams(t, nil)
		if VerifySignature(p, "othersecret") {
			t.Fatal("wrong secret must not verify")
		}
	})
}

func TestClientVerifyNotification(t *testing.T) {
	c := NewClient(testSecret, "https://sandbox.gateway.test/pay")

	t.Run("returns the parsed notification when signed", func(t *testing.T) {
		p := signedParams(t, nil)
		n, err := c.VerifyNotification(p)
		if err != nil {
			t.Fatalf("VerifyNotification: %v", err)
		}
		if n.OrderID() != "3f1c2a44-9c1e-4b7a-8d2f-0a1b2c3d4e5f" {
			t.Fatalf("order id mismatch: %q", n.OrderID())
		}
		if n.AmountRaw != 15000000 {
			t.Fatalf("amount mismatch: %d", n.AmountRaw)
		}
		if !n.Success() {
			t.Fatal("rsp_code 00 must report success")
		}
	})

	t.Run("returns ErrInvalidSignature on tamper", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Set(ParamRspCode, "24")
		if _, err := c.VerifyNotification(p); err != ErrInvalidSignature {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})
}

func TestBuildPayURL(t *testing.T) {
	c := NewClient(testSecret, "https://sandbox.gateway.test/pay")
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	raw, err := c.BuildPayURL(PayRequest{
		OrderID:   "order-1",
		Amount:    150000,
		OrderInfo: "order payment",
		ReturnURL: "https://shop.test/checkout/return",
		Now:       now,
	})
	if err != nil {
		t.Fatalf("BuildPayURL: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse pay url: %v", err)
	}
	q := u.Query()

	t.Run("scales the amount by 100", func(t *testing.T) {
		if got := q.Get(ParamAmount); got != "15000000" {
			t.Fatalf("amount on the wire: %q", got)
		}
	})

	t.Run("embeds the order id as the txn_ref prefix", func(t *testing.T) {
		ref := q.Get(ParamTxnRef)
		if !strings.HasPrefix(ref, "order-1_") {
			t.Fatalf("txn_ref %q lost the order id prefix", ref)
		}
	})

	t.Run("signature verifies with the notification verifier", func(t *testing.T) {
		if !VerifySignature(q, testSecret) {
			t.Fatal("outbound signature must verify with the inbound rule")
		}
	})

	t.Run("rejects an empty order", func(t *testing.T) {
		if _, err := c.BuildPayURL(PayRequest{Amount: 100}); err == nil {
			t.Fatal("expected error for missing order id")
		}
	})
}

func TestParseNotification(t *testing.T) {
	t.Run("rejects missing required fields", func(t *testing.T) {
		p := signedParams(t, nil)
		p.Del(ParamTxnID)
		if _, err := ParseNotification(p); err == nil {
			t.Fatal("expected missing-field error")
		}
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		p := signedParams(t, func(v url.Values) { v.Set(ParamAmount, "12x") })
		if _, err := ParseNotification(p); err == nil {
			t.Fatal("expected amount parse error")
		}
	})

	t.Run("pay_date parses with fallback", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		n := Notification{PayDate: "20250101103000"}
		if got := n.PaidAt(now); got.Year() != 2025 || got.Month() != 1 {
			t.Fatalf("pay_date not parsed: %v", got)
		}
		n.PayDate = "garbage"
		if got := n.PaidAt(now); !got.Equal(now) {
			t.Fatalf("expected fallback to now, got %v", got)
		}
	})
}
