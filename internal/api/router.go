// internal/api/router.go
package api

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/DreamLogger/internal/config"
	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/utils"
	"github.com/Corphon/DreamLogger/web"
)

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *RateLimiter) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.GetLogger().Error("panic recovered", map[string]interface{}{
			"path":       c.Request.URL.Path,
			"request_id": requestIDFrom(c),
			"panic":      recovered,
		})
		respondError(c, http.StatusInternalServerError, ErrorInternalError, "An internal error occurred")
	}))
	r.Use(RequestIDMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(corsMiddleware())
	r.Use(handler.sessions.SessionMiddleware())

	if err := loadTemplates(r, cfg.TemplatesDir); err != nil {
		return nil, err
	}

	// static files, including generated images
	r.Static("/static", cfg.StaticDir)

	// ===============================
	// pages
	// ===============================
	r.GET("/", handler.IndexPage)
	r.GET("/login", handler.LoginPage)
	r.POST("/login", handler.Login)
	r.GET("/logout", handler.Logout)
	r.GET("/dashboard", RequireSession(), handler.DashboardPage)

	// ===============================
	// journal
	// ===============================
	r.GET("/dreams", RequireSessionJSON(), handler.GetDreams)
	r.POST("/analyze", RequireSessionJSON(), RateLimitByUser(limiter), handler.AnalyzeDream)
	r.GET("/ws/dreams", RequireSessionJSON(), handler.DreamFeed)

	// ===============================
	// operations
	// ===============================
	r.GET("/healthz", handler.Healthz)
	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))

	r.NoRoute(func(c *gin.Context) {
		respondAppError(c, apperrors.NewNotFoundError("no route for "+c.Request.URL.Path, nil), ErrorNotFound, "Not found")
	})

	return r, nil
}

// loadTemplates prefers templates on disk so they can be edited without a rebuild.
func loadTemplates(r *gin.Engine, dir string) error {
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err == nil && len(matches) > 0 {
			r.LoadHTMLFiles(matches...)
			return nil
		}
	}

	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
