package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/pkg/logger"
)

// Recovery returns a Gin middleware that converts panics into 500
// responses. The panic value and stack are logged; the client only sees
// a generic message.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqLog := logger.WithContext(c.Request.Context(), log)
				reqLog.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "an internal error occurred",
				})
			}
		}()
		c.Next()
	}
}
