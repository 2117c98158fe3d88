package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Adnan4141/digital-product-store-server/middleware"
)

// OrderRoute sets up the order lifecycle routes: creation and reads, the
// payment-intent endpoint, the admin status override and the processor
// webhook.
func OrderRoute(router *gin.Engine, ctrl Controllers, requireAdmin gin.HandlerFunc, rdb *redis.Client) {
	rateLimit := middleware.RateLimiter(rdb)

	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", rateLimit, ctrl.Orders.CreateOrder)
		orderRoutes.GET("", requireAdmin, ctrl.Orders.ListOrders)
		orderRoutes.GET("/:id", ctrl.Orders.GetOrder)
		orderRoutes.POST("/:id/payment", rateLimit, ctrl.Payments.CreatePaymentIntent)
		orderRoutes.PUT("/:id/status", requireAdmin, ctrl.Orders.UpdateOrderStatus)
	}

	router.POST("/webhooks/stripe", ctrl.Webhooks.HandleStripeWebhook)
}
