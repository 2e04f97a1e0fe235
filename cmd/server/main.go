// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Corphon/DreamLogger/internal/app"
	"github.com/Corphon/DreamLogger/internal/config"
	"github.com/Corphon/DreamLogger/internal/utils"
)

func main() {
	log.Println("🌙 Starting Dream Logger...")

	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	// 1. configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// 2. logging
	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "dreamlogger.log"), cfg.DebugMode); err != nil {
		log.Printf("⚠️ file logging disabled: %v", err)
	}
	defer utils.GetLogger().Close()
	utils.GetLogger().Info("✅ configuration loaded", map[string]interface{}{
		"port":           cfg.Port,
		"db":             cfg.DBPath,
		"text_provider":  cfg.TextGenerationEnabled(),
		"image_provider": cfg.ImageGenerationEnabled(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. services and routes
	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer application.Close()

	// 4. provider probe; failure only degrades to the local engine
	probeCtx, cancel := context.WithTimeout(ctx, cfg.TextTimeout+5*time.Second)
	application.ProbeProviders(probeCtx)
	cancel()

	// 5. serve until interrupted
	return application.Run(ctx)
}
