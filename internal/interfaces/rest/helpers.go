package rest

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/pkg/auth"
	"github.com/atlaserp/backend/pkg/constants"
	"github.com/atlaserp/backend/pkg/errors"
)

// GetUserFromContext extracts the authenticated user stored by the
// auth middleware. Nil when the route is unauthenticated.
func GetUserFromContext(c *gin.Context) *auth.UserSession {
	userInterface, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user := userInterface.(auth.UserSession)
	return &user
}

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	errorCode := errors.GetErrorCode(err)
	message := err.Error()

	if code >= 500 {
		log.Printf("❌ ERROR [%d] %s %s: %s", code, c.Request.Method, c.Request.URL.Path, message)
	}

	c.JSON(code, gin.H{
		constants.ResponseError: message,
		constants.FieldMessage:  message,
		"code":                  errorCode,
		"data":                  nil,
	})
}

// BindJSON binds JSON and returns true if successful. If failed, it sends bad request error.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// RespondOK wraps a result under a JSON key.
// Response: { [key]: result }
func RespondOK(c *gin.Context, key string, result interface{}) {
	c.JSON(http.StatusOK, gin.H{key: result})
}

// RespondCreated wraps a created object under a JSON key with a message.
func RespondCreated(c *gin.Context, key string, successMsg string, obj interface{}) {
	c.JSON(http.StatusCreated, gin.H{constants.FieldMessage: successMsg, key: obj})
}

// RespondMessage sends a bare success message.
func RespondMessage(c *gin.Context, successMsg string) {
	c.JSON(http.StatusOK, gin.H{constants.FieldMessage: successMsg})
}

// ParsePagination reads limit/offset query parameters with defaults.
func ParsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery(constants.ParamLimit, "0"))
	offset, _ = strconv.Atoi(c.DefaultQuery(constants.ParamOffset, "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ParseDateParam reads a query parameter as a date. Both RFC 3339 and
// plain 2006-01-02 are accepted; the fallback applies when absent.
func ParseDateParam(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError(name, "Invalid date, expected RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}
