package middleware

import (
	"net/http"

	"catering_store/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 with the generic error body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.FromContext(c).WithField("panic", recovered).Error("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	})
}
