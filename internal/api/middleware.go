// internal/api/middleware.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Corphon/DreamLogger/internal/utils"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware propagates an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggerMiddleware writes one structured line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": requestIDFrom(c),
		}
		if username := c.GetString(usernameKey); username != "" {
			fields["username"] = username
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			utils.GetLogger().Error("request", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			utils.GetLogger().Warn("request", fields)
		default:
			utils.GetLogger().Debug("request", fields)
		}
	}
}

// MetricsMiddleware records request counts, latency and in-flight requests.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.IncInFlight()
		start := time.Now()
		defer utils.DecInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		utils.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// corsMiddleware allows cross-origin requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
