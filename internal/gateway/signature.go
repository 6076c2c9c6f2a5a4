package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Client signs outbound pay URLs and verifies inbound notifications with the
// same canonicalization, so the two can never drift apart.
type Client struct {
	Secret string
	PayURL string
}

func NewClient(secret, payURL string) *Client {
	return &Client{Secret: secret, PayURL: payURL}
}

// canonicalMessage builds the string the signature covers: drop the
// signature field itself, sort the remaining keys, URL-encode key and value,
// join with '&'. Empty values are skipped, matching the gateway.
func canonicalMessage(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ParamSignature {
			continue
		}
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(params.Get(k)))
	}
	return strings.Join(parts, "&")
}

// Sign computes the lowercase-hex HMAC-SHA512 over the canonical message.
func Sign(params url.Values, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonicalMessage(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature and compares constant-time.
func VerifySignature(params url.Values, secret string) bool {
	supplied := params.Get(ParamSignature)
	if supplied == "" {
		return false
	}
	suppliedRaw, err := hex.DecodeString(strings.ToLower(supplied))
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonicalMessage(params)))
	return hmac.Equal(mac.Sum(nil), suppliedRaw)
}

// VerifyNotification parses and authenticates an inbound notification.
// Channel-agnostic: the notify endpoint and the browser return both go
// through here.
func (c *Client) VerifyNotification(params url.Values) (Notification, error) {
	if !VerifySignature(params, c.Secret) {
		return Notification{}, ErrInvalidSignature
	}
	return ParseNotification(params)
}

// PayRequest describes one outbound payment to hand to the gateway.
type PayRequest struct {
	OrderID   string
	Amount    int64 // order minor units; scaled by 100 on the wire
	OrderInfo string
	ReturnURL string
	Now       time.Time
}

// BuildPayURL returns the fully signed gateway URL for a pay request.
func (c *Client) BuildPayURL(req PayRequest) (string, error) {
	if req.OrderID == "" || req.Amount <= 0 {
		return "", fmt.Errorf("gateway: invalid pay request for order %q", req.OrderID)
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	params := url.Values{}
	params.Set(ParamTxnRef, NewTxnRef(req.OrderID, now))
	params.Set(ParamAmount, strconv.FormatInt(req.Amount*100, 10))
	params.Set(ParamOrderInfo, req.OrderInfo)
	params.Set("return_url", req.ReturnURL)
	params.Set("create_date", now.Format(payDateLayout))
	params.Set(ParamSignature, Sign(params, c.Secret))

	return c.PayURL + "?" + params.Encode(), nil
}
