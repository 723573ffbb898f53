package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screenbot/internal/app"
	"screenbot/internal/config"
)

func main() {
	cfg := config.Load()
	logger := app.NewLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	bot, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           bot.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"port", cfg.HTTPPort,
			"row_store", cfg.RowStoreLocation(),
			"session_store", cfg.SessionStore,
			"scoring_model", cfg.AI.Model,
			"scoring_mode", scoringMode(cfg),
			"admin_user_id", cfg.AdminUserID,
			"alert_chat_id", cfg.AdminAlertChatID,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	bot.Close(ctx)
	logger.Info("server exited")
}

func scoringMode(cfg *config.Config) string {
	if cfg.AI.IsMock() {
		return "mock"
	}
	return "responses-api"
}
