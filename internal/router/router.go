package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pg-bridge-api/internal/handler"
	"pg-bridge-api/internal/middleware"
)

type Handlers struct {
	Checkout *handler.CheckoutHandler
	External *handler.ExternalCheckoutHandler
	Refund   *handler.RefundHandler
	Admin    *handler.AdminHandler
}

type Options struct {
	AdminSecret    string
	AdminWindow    time.Duration
	TrustedProxies []string

	AccessLog *logrus.Logger
	ErrorLog  *logrus.Logger
	AuditLog  *logrus.Logger
}

// New wires the Mall, PG and admin routes.
func New(h Handlers, o Options) *gin.Engine {
	r := gin.New()
	// 设置可信代理 IP（如本地或内网）
	_ = r.SetTrustedProxies(o.TrustedProxies)
	r.Use(
		middleware.TraceAudit(o.AuditLog),
		middleware.Recover(o.ErrorLog),
		middleware.RequestLogger(o.AccessLog, o.ErrorLog),
	)

	api := r.Group("/api")
	{
		sync := api.Group("/synchronous-checkout")
		sync.POST("/checkout", h.Checkout.SyncCheckout)
		sync.GET("/checkout/callback", h.Checkout.SyncCallback)
		sync.GET("/checkout/status", h.Checkout.SyncStatus)

		async := api.Group("/asynchronous-checkout")
		async.POST("/checkout", h.Checkout.AsyncCheckout)
		async.GET("/checkout/callback", h.Checkout.AsyncCallback)
		async.POST("/checkout/webhook", h.Checkout.AsyncWebhook)

		ext := api.Group("/external-checkout")
		ext.GET("/script/data", h.External.ScriptData)
		ext.GET("/script/hmac", h.External.OrderRequestHmac)
		ext.POST("/payload", h.External.Payload)
		ext.GET("/order/review", h.External.Review)
		ext.POST("/order/pay", h.External.Pay)
		ext.GET("/order/callback", h.External.Callback)

		api.POST("/synchronous-refund/cancel", h.Refund.SyncCancel)

		asyncRefund := api.Group("/asynchronous-refund")
		asyncRefund.POST("/cancel", h.Refund.AsyncCancel)
		asyncRefund.POST("/cancel/webhook", h.Refund.CancelWebhook)
	}

	admin := r.Group("/admin", middleware.AdminAuth(o.AdminSecret, o.AdminWindow))
	{
		admin.POST("/link", h.Admin.Link)
		admin.POST("/unlink", h.Admin.Unlink)
		admin.POST("/shop/toggle", h.Admin.ToggleShop)
		admin.GET("/settings", h.Admin.Settings)
	}
	return r
}
