package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/gateway"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
)

// Settler is the settlement pipeline as seen by the ingress handlers.
type Settler interface {
	Settle(ctx context.Context, params url.Values) (payments.Result, error)
	Status(ctx context.Context, orderID string) (payments.StatusView, error)
}

type GatewayWebhookHandler struct {
	Logger  *slog.Logger
	Settler Settler
}

func NewGatewayWebhookHandler(logger *slog.Logger, s Settler) *GatewayWebhookHandler {
	return &GatewayWebhookHandler{Logger: logger, Settler: s}
}

// GET /webhooks/gateway/notify
// Server-to-server notify (IPN). The gateway re-delivers until it sees a
// terminal ack code, so this endpoint always answers 200 with a code from
// the fixed vocabulary; only the code tells the gateway whether to retry.
func (h *GatewayWebhookHandler) HandleNotify(c *gin.Context) {
	params := c.Request.URL.Query()

	res, err := h.Settler.Settle(c.Request.Context(), params)
	code, msg := AckFor(err)

	if err != nil {
		h.Logger.Warn("gateway notify rejected",
			"txn_ref", params.Get(gateway.ParamTxnRef),
			"rsp_code", code,
			"err", err)
	} else if res.AlreadySettled {
		h.Logger.Info("gateway notify deduplicated",
			"order_id", res.OrderID, "payment_status", res.PaymentStatus)
	}

	c.JSON(http.StatusOK, gin.H{"rsp_code": code, "message": msg})
}

// AckFor maps a settlement outcome onto the gateway's ack vocabulary.
// AlreadySettled is success: the gateway must stop re-delivering.
func AckFor(err error) (code, message string) {
	switch {
	case err == nil:
		return gateway.AckAccepted, "confirmed"
	case errors.Is(err, gateway.ErrInvalidSignature):
		return gateway.AckInvalidSignature, "invalid signature"
	case errors.Is(err, payments.ErrOrderNotFound):
		return gateway.AckOrderNotFound, "order not found"
	case errors.Is(err, payments.ErrAmountMismatch):
		return gateway.AckAmountMismatch, "amount mismatch"
	case errors.Is(err, payments.ErrLockBusy):
		return gateway.AckLockBusy, "settlement in progress, retry later"
	default:
		// insufficient stock and storage errors land here: keep the
		// gateway retrying while operators intervene
		return gateway.AckUnknownError, "unknown error"
	}
}
