package routes

import (
	"github.com/gin-gonic/gin"
)

// CatalogRoute sets up the routes for the product and category resources.
// Reads are public; writes require the admin secret.
func CatalogRoute(router *gin.Engine, ctrl Controllers, requireAdmin gin.HandlerFunc) {
	// Group routes for better organization
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", ctrl.Products.GetProducts)
		productRoutes.GET("/:id", ctrl.Products.GetProductByID)
		productRoutes.POST("", requireAdmin, ctrl.Products.CreateProduct)
		productRoutes.PUT("/:id", requireAdmin, ctrl.Products.UpdateProduct)
		productRoutes.DELETE("/:id", requireAdmin, ctrl.Products.DeleteProduct)
	}

	categoryRoutes := router.Group("/categories")
	{
		categoryRoutes.GET("", ctrl.Categories.GetCategories)
		categoryRoutes.GET("/:id", ctrl.Categories.GetCategoryByID)
		categoryRoutes.POST("", requireAdmin, ctrl.Categories.CreateCategory)
		categoryRoutes.PUT("/:id", requireAdmin, ctrl.Categories.UpdateCategory)
		categoryRoutes.DELETE("/:id", requireAdmin, ctrl.Categories.DeleteCategory)
	}
}
