package receipts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/mailer"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/orders"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
)

// Service emails the customer a payment receipt after settlement commits.
// Best-effort: the caller logs failures, nothing is retried or rolled back.
type Service struct {
	mail     mailer.Service
	from     string
	fromName string
}

func NewService(mail mailer.Service, from, fromName string) *Service {
	return &Service{mail: mail, from: from, fromName: fromName}
}

func (s *Service) SendPaymentReceipt(ctx context.Context, ord orders.Order, txn payments.PaymentTransaction) error {
	if ord.Email == "" {
		return nil
	}

	amount := FormatAmount(txn.Amount, ord.Currency)
	subject := fmt.Sprintf("Payment received for order #%s", shortID(ord.ID))

	textBody := fmt.Sprintf(
		"Hello,\n\nWe received your payment of %s for order #%s.\nTransaction: %s\n\nYour order is being prepared for dispatch.\n",
		amount, shortID(ord.ID), txn.TransactionCode,
	)

	htmlBody := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Payment received</h2>
    <p>We received your payment of <strong>` + amount + `</strong> for order <strong>#` + shortID(ord.ID) + `</strong>.</p>
    <p><strong>Transaction:</strong> ` + txn.TransactionCode + `</p>
    <p>Your order is being prepared for dispatch.</p>
  </body>
</html>
`

	return s.mail.Send(ctx, mailer.Email{
		From:     s.from,
		FromName: s.fromName,
		To:       []string{ord.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
}

// FormatAmount renders a minor-unit amount in its currency.
func FormatAmount(minor int64, currency string) string {
	d := decimal.NewFromInt(minor).Shift(-int32(currencyExponent(currency)))
	return d.StringFixed(int32(currencyExponent(currency))) + " " + currency
}

func currencyExponent(currency string) int {
	switch currency {
	case "VND", "JPY", "KRW":
		return 0
	default:
		return 2
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
