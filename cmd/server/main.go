package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/app/config"
	"analytics_backend/internal/app/di"
	"analytics_backend/internal/app/router"
	jwtmw "analytics_backend/internal/platform/jwt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := di.NewDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Redis
	rdb := di.NewRedisClient(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	store, err := di.NewObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	summarizer, limiter, err := di.NewSummarizer(ctx, cfg)
	if err != nil {
		return err
	}

	handlers, err := di.NewHandlers(cfg, di.Deps{
		DB:         gdb,
		Redis:      rdb,
		Store:      store,
		Summarizer: summarizer,
		Limiter:    limiter,
	})
	if err != nil {
		return err
	}
	engine := router.NewRouter(router.Options{
		FrontendURL: cfg.FrontendURL,
		Verifier:    jwtmw.NewVerifier(cfg.JWTSecret),
	}, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv,
			"redis", rdb != nil, "s3", store != nil, "summaries", summarizer != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
