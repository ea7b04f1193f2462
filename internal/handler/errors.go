package handler

import (
	"errors"
	"net/http"

	"catering_store/internal/logging"
	"catering_store/internal/service"

	"github.com/gin-gonic/gin"
)

const serverErrorMessage = "Server error"

var kindStatus = []struct {
	kind   error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
}

// respondError writes the {message} body for err. Errors outside the known
// kinds are logged with detail and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	for _, ks := range kindStatus {
		if !errors.Is(err, ks.kind) {
			continue
		}
		message := ks.kind.Error()
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
		c.JSON(ks.status, gin.H{"message": message})
		return
	}

	logging.FromContext(c).WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": serverErrorMessage})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
}
