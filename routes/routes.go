package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Adnan4141/digital-product-store-server/controller"
	"github.com/Adnan4141/digital-product-store-server/middleware"
)

// Controllers groups the handler sets the router wires up.
type Controllers struct {
	Products   *controller.ProductController
	Categories *controller.CategoryController
	Orders     *controller.OrderController
	Payments   *controller.PaymentController
	Webhooks   *controller.WebhookController
}

// Register sets up every route on the engine. Admin endpoints share one
// RequireAdmin instance; order creation and payment go through the rate
// limiter.
func Register(router *gin.Engine, ctrl Controllers, adminSecret string, rdb *redis.Client) {
	router.GET("/health", controller.HealthCheck)

	requireAdmin := middleware.RequireAdmin(adminSecret)
	CatalogRoute(router, ctrl, requireAdmin)
	OrderRoute(router, ctrl, requireAdmin, rdb)
}
