// internal/api/auth_middleware.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/DreamLogger/internal/auth"
	"github.com/Corphon/DreamLogger/internal/utils"
)

const (
	SessionCookieName = "dream_session"
	usernameKey       = "username"
)

// SessionManager issues and reads the signed session cookie.
type SessionManager struct {
	tokens *auth.TokenConfig
	secure bool
}

// NewSessionManager creates a session manager. With secureCookies false the
// Secure flag is still set for requests that arrived over HTTPS.
func NewSessionManager(tokens *auth.TokenConfig, secureCookies bool) *SessionManager {
	return &SessionManager{tokens: tokens, secure: secureCookies}
}

// Start sets a session cookie for username.
func (sm *SessionManager) Start(c *gin.Context, username string) error {
	token, err := auth.GenerateToken(username, sm.tokens)
	if err != nil {
		return err
	}
	sm.setCookie(c, token, int(sm.tokens.Expiration/time.Second))
	return nil
}

// End clears the session cookie.
func (sm *SessionManager) End(c *gin.Context) {
	sm.setCookie(c, "", -1)
}

func (sm *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", sm.secure || isHTTPS(c), true)
}

// isHTTPS reports whether the client reached us over TLS, directly or through a proxy.
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// SessionMiddleware puts the session username, if any, into the request context.
// It never rejects a request.
func (sm *SessionManager) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		token, err := auth.ParseToken(cookie, sm.tokens)
		if err != nil {
			utils.GetLogger().Debug("ignoring invalid session cookie", map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestIDFrom(c),
			})
			c.Next()
			return
		}

		c.Set(usernameKey, token.Username)
		c.Next()
	}
}

// RequireSession rejects requests without a session: JSON clients get 401,
// page requests are redirected to the login page.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); ok {
			c.Next()
			return
		}

		if wantsJSON(c) {
			respondError(c, http.StatusUnauthorized, ErrorUnauthorized, msgAuthRequired)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// RequireSessionJSON always answers 401 without a session.
func RequireSessionJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); !ok {
			respondError(c, http.StatusUnauthorized, ErrorUnauthorized, msgAuthRequired)
			return
		}
		c.Next()
	}
}

// GetUserFromContext returns the session username.
func GetUserFromContext(c *gin.Context) (string, bool) {
	username := c.GetString(usernameKey)
	return username, username != ""
}
