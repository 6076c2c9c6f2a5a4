package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/gateway"
)

type PaymentReturnHandler struct {
	Logger  *slog.Logger
	Settler Settler

	// Storefront page that renders the outcome to the user.
	ResultURL string
}

func NewPaymentReturnHandler(logger *slog.Logger, s Settler, resultURL string) *PaymentReturnHandler {
	return &PaymentReturnHandler{Logger: logger, Settler: s, ResultURL: resultURL}
}

// GET /payments/gateway/return
// Browser redirect back from the gateway. Fallback ingress: runs the same
// settlement pipeline as the notify path, then re-reads the final state --
// if the notify path won the race this attempt is a no-op, and if this
// attempt lost the lock the other path's result is what gets displayed.
func (h *PaymentReturnHandler) Handle(c *gin.Context) {
	params := c.Request.URL.Query()

	_, err := h.Settler.Settle(c.Request.Context(), params)
	if errors.Is(err, gateway.ErrInvalidSignature) || errors.Is(err, gateway.ErrMissingField) {
		h.Logger.Warn("gateway return rejected", "err", err)
		c.Redirect(http.StatusFound, h.resultLocation("", "invalid", ""))
		return
	}
	if err != nil {
		// Busy, stock conflict, storage error: the redirect never surfaces
		// these, it reports whatever state the order actually reached.
		h.Logger.Warn("gateway return settlement did not apply", "err", err)
	}

	orderID := gateway.OrderIDFromTxnRef(params.Get(gateway.ParamTxnRef))
	status := "unknown"
	if view, serr := h.Settler.Status(c.Request.Context(), orderID); serr == nil {
		status = view.PaymentStatus
	}

	c.Redirect(http.StatusFound, h.resultLocation(orderID, status, params.Get(gateway.ParamAmount)))
}

// resultLocation builds the storefront redirect target. Display only, never
// trusted as settlement truth by anything downstream.
func (h *PaymentReturnHandler) resultLocation(orderID, status, amount string) string {
	q := url.Values{}
	if orderID != "" {
		q.Set("order_id", orderID)
	}
	q.Set("status", status)
	if amount != "" {
		q.Set("amount", amount)
	}
	return h.ResultURL + "?" + q.Encode()
}
