package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Wire parameter names. The gateway sends the same field set on both the
// server-to-server notify call and the browser return redirect.
const (
	ParamTxnRef    = "txn_ref"
	ParamRspCode   = "rsp_code"
	ParamAmount    = "amount"
	ParamTxnID     = "gw_txn_id"
	ParamBankCode  = "bank_code"
	ParamPayDate   = "pay_date"
	ParamOrderInfo = "order_info"
	ParamSignature = "sig"
)

// RspCodeSuccess is the gateway's "transaction approved" result code.
const RspCodeSuccess = "00"

// Ack codes returned to the gateway on the notify (IPN) endpoint. Anything
// other than AckAccepted / the terminal rejects makes the gateway re-deliver.
const (
	AckAccepted         = "00"
	AckOrderNotFound    = "01"
	AckAmountMismatch   = "04"
	AckLockBusy         = "94"
	AckInvalidSignature = "97"
	AckUnknownError     = "99"
)

const payDateLayout = "20060102150405"

var (
	ErrMissingField     = errors.New("gateway: missing notification field")
	ErrInvalidSignature = errors.New("gateway: invalid signature")
)

// Notification is one settlement event as delivered by the gateway,
// regardless of which channel carried it.
type Notification struct {
	TxnRef    string
	RspCode   string
	AmountRaw int64 // minor units scaled by 100
	TxnID     string
	BankCode  string
	PayDate   string
	OrderInfo string

	// Params keeps the full original field set, signature included, for
	// audit persistence.
	Params url.Values
}

func (n Notification) Success() bool { return n.RspCode == RspCodeSuccess }

// OrderID extracts the order id embedded as the txn_ref prefix token.
func (n Notification) OrderID() string { return OrderIDFromTxnRef(n.TxnRef) }

func OrderIDFromTxnRef(ref string) string {
	id, _, _ := strings.Cut(ref, "_")
	return id
}

// PaidAt parses pay_date; falls back to now when the gateway omits or
// mangles it.
func (n Notification) PaidAt(now time.Time) time.Time {
	t, err := time.ParseInLocation(payDateLayout, n.PayDate, now.Location())
	if err != nil {
		return now
	}
	return t
}

// ParseNotification validates presence and shape of the required fields.
// Signature verification is a separate step (see Client.VerifyNotification).
func ParseNotification(params url.Values) (Notification, error) {
	n := Notification{
		TxnRef:    params.Get(ParamTxnRef),
		RspCode:   params.Get(ParamRspCode),
		TxnID:     params.Get(ParamTxnID),
		BankCode:  params.Get(ParamBankCode),
		PayDate:   params.Get(ParamPayDate),
		OrderInfo: params.Get(ParamOrderInfo),
		Params:    params,
	}

	for _, f := range []struct{ name, val string }{
		{ParamTxnRef, n.TxnRef},
		{ParamRspCode, n.RspCode},
		{ParamTxnID, n.TxnID},
		{ParamAmount, params.Get(ParamAmount)},
	} {
		if f.val == "" {
			return Notification{}, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	amount, err := strconv.ParseInt(params.Get(ParamAmount), 10, 64)
	if err != nil || amount < 0 {
		return Notification{}, fmt.Errorf("%w: %s", ErrMissingField, ParamAmount)
	}
	n.AmountRaw = amount

	return n, nil
}

// NewTxnRef builds the outbound transaction reference for an order. The
// order id must stay the prefix token: the notify path recovers it via
// Notification.OrderID.
func NewTxnRef(orderID string, now time.Time) string {
	return orderID + "_" + strconv.FormatInt(now.Unix(), 10)
}
