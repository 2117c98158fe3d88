package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/utils"
)

// respondError maps an error to the response envelope exactly once, at the
// HTTP boundary. AppErrors keep their message and status; anything else
// becomes an opaque 500 whose detail stays in the server log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if appErr, ok := utils.AsAppError(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(err),
			)
		} else {
			logger.Warn("request rejected",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.String("kind", string(appErr.Kind)),
				zap.String("reason", appErr.Message),
			)
		}
		c.JSON(appErr.Status, utils.Fail(appErr.Message))
		return
	}

	logger.Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, utils.Fail("internal server error"))
}
