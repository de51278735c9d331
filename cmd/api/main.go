package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"skincare-tracker/config"
	"skincare-tracker/internal/app"
	pkgconfig "skincare-tracker/pkg/config"
	"skincare-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load(pkgconfig.GetConfigEnv(), pkgconfig.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	// 优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunAPI(ctx, cfg, log); err != nil {
		log.Fatal("API stopped with error", zap.Error(err))
	}
	log.Info("API shutdown complete")
}
