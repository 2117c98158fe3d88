package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/orders", RateLimiter(nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < rateLimitCount+5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}
