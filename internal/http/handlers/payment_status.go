package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/http/middleware"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/modules/payments"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/shared/apperr"
)

type PaymentStatusHandler struct {
	Settler Settler
}

func NewPaymentStatusHandler(s Settler) *PaymentStatusHandler {
	return &PaymentStatusHandler{Settler: s}
}

// GET /api/orders/:id/payment
// Storefront polls this while waiting for settlement to land.
func (h *PaymentStatusHandler) Handle(c *gin.Context) {
	view, err := h.Settler.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, payments.ErrOrderNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, view)
}
