package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/pkg/apperror"
)

// GetCaller retrieves the resolved authenticated caller from the context.
func GetCaller(c *gin.Context) (authz.Caller, error) {
	v, exists := c.Get("caller")
	if !exists {
		return authz.Caller{}, apperror.ErrUnauthorized
	}

	caller, ok := v.(authz.Caller)
	if !ok {
		return authz.Caller{}, apperror.ErrUnauthorized
	}

	return caller, nil
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error writes a standardized error response
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors, reply generically
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
