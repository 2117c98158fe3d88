package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adnan4141/digital-product-store-server/utils"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, utils.OK("healthy", gin.H{"status": "up"}))
}
