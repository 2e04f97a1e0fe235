// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/models"
)

// DreamJournal records and lists a user's dreams.
type DreamJournal interface {
	Submit(ctx context.Context, username, text string) (*models.Dream, error)
	History(ctx context.Context, username string) ([]models.Dream, error)
}

// Authenticator logs users in by username.
type Authenticator interface {
	Login(ctx context.Context, username string) (*models.User, bool, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessReporter reports whether an optional provider is configured.
type ReadinessReporter interface {
	IsReady() bool
}

// Handler serves the pages and JSON endpoints.
type Handler struct {
	dreams   DreamJournal
	users    Authenticator
	sessions *SessionManager
	hub      *DreamHub
	db       Pinger
	text     ReadinessReporter
}

// NewHandler wires the handler. db and text are only used by the health check and may be nil.
func NewHandler(dreams DreamJournal, users Authenticator, sessions *SessionManager, hub *DreamHub, db Pinger, text ReadinessReporter) *Handler {
	if hub == nil {
		hub = NewDreamHub()
	}
	return &Handler{
		dreams:   dreams,
		users:    users,
		sessions: sessions,
		hub:      hub,
		db:       db,
		text:     text,
	}
}

// IndexPage shows the dashboard to logged-in users and the login page otherwise.
func (h *Handler) IndexPage(c *gin.Context) {
	if username, ok := GetUserFromContext(c); ok {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{"username": username})
		return
	}
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h *Handler) DashboardPage(c *gin.Context) {
	username, _ := GetUserFromContext(c)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"username": username})
}

// Login creates or resumes the user and starts a session.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorBadRequest, msgInvalidBody)
		return
	}

	user, created, err := h.users.Login(c.Request.Context(), req.Username)
	if err != nil {
		code := ErrorLoginFailed
		if apperrors.IsValidationError(err) {
			code = ErrorInvalidUsername
		}
		respondAppError(c, err, code, msgLoginFailed)
		return
	}

	if err := h.sessions.Start(c, user.Username); err != nil {
		respondAppError(c, err, ErrorLoginFailed, msgLoginFailed)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success:  true,
		Username: user.Username,
		Created:  created,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.End(c)
	c.Redirect(http.StatusFound, "/")
}

// GetDreams lists the session user's dreams, newest first.
func (h *Handler) GetDreams(c *gin.Context) {
	username, _ := GetUserFromContext(c)

	dreams, err := h.dreams.History(c.Request.Context(), username)
	if err != nil {
		respondAppError(c, err, ErrorHistoryFailed, msgHistoryFailed)
		return
	}

	entries := make([]models.DreamEntry, 0, len(dreams))
	for i := range dreams {
		entries = append(entries, dreams[i].Entry())
	}
	c.JSON(http.StatusOK, entries)
}

// AnalyzeDream analyzes, illustrates and saves one dream.
func (h *Handler) AnalyzeDream(c *gin.Context) {
	username, _ := GetUserFromContext(c)

	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorBadRequest, msgInvalidBody)
		return
	}

	d, err := h.dreams.Submit(c.Request.Context(), username, req.Dream)
	if err != nil {
		code := ErrorAnalysisFailed
		if apperrors.IsValidationError(err) {
			code = ErrorEmptyDream
		}
		respondAppError(c, err, code, msgAnalysisFailed)
		return
	}

	c.JSON(http.StatusOK, d.AnalyzeResponse())
}

// Healthz reports database reachability. Missing providers do not make the service unhealthy.
func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":            "ok",
		"database":          "ok",
		"text_provider":     h.text != nil && h.text.IsReady(),
		"websocket_clients": h.hub.ClientCount(),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		}
	}

	c.JSON(status, body)
}
