// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/DreamLogger/internal/api"
	"github.com/Corphon/DreamLogger/internal/auth"
	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/dream"
	"github.com/Corphon/DreamLogger/internal/services"
	"github.com/Corphon/DreamLogger/internal/storage"
	"github.com/Corphon/DreamLogger/internal/utils"
)

const shutdownTimeout = 30 * time.Second

// App owns every long-lived component of the server.
type App struct {
	Config   *config.Config
	Store    *storage.DreamStore
	LLM      *services.LLMService
	Analyzer *services.AnalyzerService
	Images   *services.ImageService
	Dreams   *services.DreamService
	Users    *services.UserService
	Hub      *api.DreamHub
	Limiter  *api.RateLimiter
	Router   *gin.Engine
}

// New opens the store and wires services and routes. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := createDirectories(cfg); err != nil {
		return nil, err
	}

	store, err := storage.OpenDreamStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open dream store: %w", err)
	}
	utils.GetLogger().Info("✅ dream store ready", map[string]interface{}{"path": cfg.DBPath})

	images, err := storage.NewFileStorage(cfg.GeneratedImageDir(), "/static/generated")
	if err != nil {
		store.Close()
		return nil, err
	}

	tokens, generated, err := auth.NewTokenConfig(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("session key: %w", err)
	}
	if generated {
		utils.GetLogger().Warn("⚠️ SESSION_SECRET not set, sessions will not survive a restart", nil)
	}

	a := &App{
		Config: cfg,
		Store:  store,
		LLM:    services.NewLLMService(cfg),
		Hub:    api.NewDreamHub(),
	}

	rnd := dream.NewEntropySource()
	a.Analyzer = services.NewAnalyzerService(a.LLM, dream.NewComposer(rnd))
	a.Images = services.NewImageService(cfg, images, rnd)
	a.Dreams = services.NewDreamService(a.Analyzer, a.Images, store)
	a.Dreams.SetNotifier(a.Hub)
	a.Users = services.NewUserService(store)
	a.Limiter = api.NewRateLimiter(cfg.AnalyzeRatePerMinute, cfg.AnalyzeBurst)

	handler := api.NewHandler(a.Dreams, a.Users, api.NewSessionManager(tokens, cfg.CookieSecure), a.Hub, store, a.LLM)
	a.Router, err = api.SetupRouter(cfg, handler, a.Limiter)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	return a, nil
}

// ProbeProviders checks the text provider once. Failures only log a warning.
func (a *App) ProbeProviders(ctx context.Context) {
	if !a.LLM.IsReady() {
		utils.GetLogger().Warn("⚠️ text provider not configured, using fallback methods", map[string]interface{}{
			"state": a.LLM.GetReadyState(),
		})
		return
	}

	if err := a.LLM.Ping(ctx); err != nil {
		utils.GetLogger().Warn("⚠️ text provider not responding, using fallback methods", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	utils.GetLogger().Info("✅ text provider ready for mood detection and dream interpretation", nil)
}

// Run listens on the configured port until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	utils.GetLogger().Infof("🚀 server available at http://0.0.0.0:%s", a.Config.Port)
	return a.Serve(ctx, ln)
}

// Serve handles requests on ln and shuts down gracefully when ctx is cancelled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utils.GetLogger().Info("🛑 shutting down server", nil)
	a.Hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	utils.GetLogger().Info("✅ server stopped", nil)
	return nil
}

// Close releases the store and background workers.
func (a *App) Close() error {
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func createDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.StaticDir,
		cfg.GeneratedImageDir(),
		filepath.Dir(cfg.DBPath),
	}
	if cfg.LogDir != "" {
		dirs = append(dirs, cfg.LogDir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
