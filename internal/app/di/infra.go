// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"analytics_backend/internal/app/config"
	analysisadapters "analytics_backend/internal/feature/analysis/adapters"
	"analytics_backend/internal/feature/analysis/adapters/gemini"
	analysisusecase "analytics_backend/internal/feature/analysis/usecase"
	authentity "analytics_backend/internal/feature/auth/domain/entity"
	uploadadapters "analytics_backend/internal/feature/upload/adapters"
	uploadusecase "analytics_backend/internal/feature/upload/usecase"
	"analytics_backend/internal/platform/db"
	platformhttp "analytics_backend/internal/platform/http"
	platformredis "analytics_backend/internal/platform/redis"
	"analytics_backend/internal/platform/storage"
	"analytics_backend/internal/shared/ratelimiter"
)

// Models lists every table the server owns, in migration order.
func Models() []any {
	return []any{&authentity.User{}, &uploadadapters.UploadModel{}, &analysisadapters.AnalysisModel{}}
}

// NewDB opens the configured SQL backend and migrates it when enabled.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	return db.OpenDB(db.Config{
		Driver:        cfg.DB.Driver,
		User:          cfg.DB.User,
		Password:      cfg.DB.Password,
		Name:          cfg.DB.Name,
		Host:          cfg.DB.Host,
		Port:          cfg.DB.Port,
		InstanceName:  cfg.DB.InstanceName,
		SQLitePath:    cfg.DB.SQLitePath,
		RunMigrations: cfg.DB.RunMigrations,
		MaxOpenConns:  cfg.DB.MaxOpenConns,
		MaxIdleConns:  cfg.DB.MaxIdleConns,
	}, Models()...)
}

// NewRedisClient returns nil when Redis is not configured or unreachable,
// in which case reads go straight to the database.
func NewRedisClient(ctx context.Context, cfg *config.Config) *goredis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, platformredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}

// NewObjectStore returns the S3 archive, or a nil interface when no bucket is set.
func NewObjectStore(ctx context.Context, cfg *config.Config) (uploadusecase.ObjectStore, error) {
	if !cfg.S3.Enabled() {
		return nil, nil
	}
	s, err := storage.NewS3Store(ctx, storage.Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewSummarizer builds the Gemini summarizer and its rate limiter.
// Both are nil interfaces when summaries are disabled.
func NewSummarizer(ctx context.Context, cfg *config.Config) (analysisusecase.Summarizer, analysisusecase.Limiter, error) {
	if !cfg.SummaryEnabled {
		return nil, nil, nil
	}
	s, err := gemini.NewSummarizer(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: platformhttp.NewHTTPClient(cfg.HTTPTimeout),
	})
	if err != nil {
		return nil, nil, err
	}
	return s, ratelimiter.NewRateLimiter(cfg.SummaryRateLimit, time.Minute), nil
}
