package middleware

import (
	"errors"
	"net/http"
	"strings"

	"catering_store/internal/logging"
	"catering_store/internal/model"
	"catering_store/internal/service"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

// JWTAuthMiddleware resolves the bearer token to a live account and stores it
// under AuthUserKey. The role always comes from storage, never from the token.
func JWTAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": service.ErrUnauthenticated.Error()})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": service.ErrUnauthenticated.Error()})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": service.ErrUnauthenticated.Error()})
				return
			}
			logging.FromContext(c).WithError(err).Error("authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}

		c.Set(AuthUserKey, user)
		logging.WithEntry(c, logging.FromContext(c).WithField("user_id", user.ID))

		c.Next()
	}
}

// CurrentUser returns the account set by JWTAuthMiddleware, or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(AuthUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
