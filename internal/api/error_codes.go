// internal/api/error_codes.go
package api

// API error codes
const (
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorUnauthorized  = "UNAUTHORIZED"
	ErrorRateLimited   = "RATE_LIMIT_EXCEEDED"

	ErrorInvalidUsername = "INVALID_USERNAME"
	ErrorEmptyDream      = "EMPTY_DREAM"
	ErrorAnalysisFailed  = "ANALYSIS_FAILED"
	ErrorHistoryFailed   = "HISTORY_FAILED"
	ErrorLoginFailed     = "LOGIN_FAILED"
)

// User-facing messages
const (
	msgAuthRequired   = "Authentication required"
	msgInvalidBody    = "Invalid request body"
	msgAnalysisFailed = "Analysis failed, please try again"
	msgHistoryFailed  = "Could not load your dreams, please try again"
	msgLoginFailed    = "Login failed, please try again"
	msgRateLimited    = "Too many dreams at once, please wait a moment"
)
