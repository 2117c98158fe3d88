package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adnan4141/digital-product-store-server/utils"
)

// AdminSecretHeader carries the shared admin secret on admin requests.
const AdminSecretHeader = "X-Admin-Secret"

// RequireAdmin guards admin endpoints with a static shared-secret check.
// An empty configured secret is a deployment error, not an open door.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.Fail("admin secret is not configured on the server"))
			return
		}

		provided := c.GetHeader(AdminSecretHeader)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Fail(AdminSecretHeader+" header is required"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Fail("invalid admin credentials"))
			return
		}
		c.Next()
	}
}
