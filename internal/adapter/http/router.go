package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/year-3-projects-cti/baskIT/internal/adapter/http/middleware"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

func NewRouter(
	ch *CheckoutHandler,
	oh *OrderHandler,
	wh *WebhookHandler,
	rh *RecommendHandler,
	th *TokenHandler,
	authz *middleware.Authz,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	r.POST("/webhooks/stripe/simulate", wh.Simulate)

	api := r.Group("/api")
	{
		api.POST("/checkout", ch.InitCheckout)
		api.GET("/home/featured", rh.Featured)

		orders := api.Group("/orders")
		{
			orders.GET("", authz.Require("orders.read"), oh.List)
			orders.POST("/:id/paid", authz.Require("orders.write"), oh.MarkPaid)
			orders.POST("/:id/fulfill", authz.Require("orders.write"), oh.Fulfill)
			orders.POST("/:id/cancel", authz.Require("orders.write"), oh.Cancel)
			orders.POST("/:id/status", authz.Require("orders.write"), oh.UpdateStatus)
		}
	}

	return r
}
