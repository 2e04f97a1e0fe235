// internal/api/response_helpers.go
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/utils"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// respondAppError answers with the status derived from err. Messages of
// non-validation errors are replaced by fallback so internals are not leaked.
func respondAppError(c *gin.Context, err error, code, fallback string) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	message := fallback
	if apperrors.IsValidationError(err) && errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		utils.GetLogger().Error("request failed", map[string]interface{}{
			"path":       c.Request.URL.Path,
			"request_id": requestIDFrom(c),
			"error":      sanitizeErrorMessage(err.Error()),
		})
	}

	respondError(c, status, code, message)
}

// sanitizeErrorMessage hides messages that may carry credentials before they are logged.
func sanitizeErrorMessage(message string) string {
	lower := strings.ToLower(message)
	for _, pattern := range []string{"api_key", "api-key", "secret", "token", "authorization", "bearer"} {
		if strings.Contains(lower, pattern) {
			return "An internal error occurred"
		}
	}
	return message
}

// wantsJSON reports whether the client expects JSON rather than an HTML page.
func wantsJSON(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
