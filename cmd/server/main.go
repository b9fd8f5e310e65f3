package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"soulsprint/internal/app"
	"soulsprint/internal/config"
	"soulsprint/internal/logger"
	"soulsprint/internal/observability"
	"syscall"
	"time"
)

// @title Soulsprint Risk & Routing API
// @version 1.0
// @description Questionnaire risk scoring, chat intensity signals and wellness task routing
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "soulsprint-api",
		Environment: cfg.LogMode,
		Version:     "1.0",
	})

	engineCfg, err := config.LoadEngineConfig(cfg.EngineConfigPath)
	if err != nil {
		log.Fatal("invalid engine config", "path", cfg.EngineConfigPath, "error", err)
	}
	log.Info("engine config loaded", "path", cfg.EngineConfigPath, "summary", engineCfg.String())

	aiConfig := config.DefaultAIConfig()
	a, err := app.Build(ctx, cfg, aiConfig, engineCfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Warn("closing backends", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("otel shutdown", "error", err)
	}

	log.Info("server exited")
}
