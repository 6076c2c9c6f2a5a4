package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/http/handlers"
	"github.com/TunPerMezy0402/DATN-Fullstack-sub001/internal/http/middleware"
)

func NewRouter(logger *slog.Logger, settler handlers.Settler, resultURL string) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
	)

	webhook := handlers.NewGatewayWebhookHandler(logger, settler)
	ret := handlers.NewPaymentReturnHandler(logger, settler, resultURL)
	status := handlers.NewPaymentStatusHandler(settler)

	// both ingress paths feed the same settlement pipeline
	r.GET("/webhooks/gateway/notify", webhook.HandleNotify)
	r.GET("/payments/gateway/return", ret.Handle)

	r.GET("/api/orders/:id/payment", status.Handle)

	return r
}
