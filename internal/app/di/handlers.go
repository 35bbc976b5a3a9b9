package di

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"analytics_backend/internal/app/config"
	"analytics_backend/internal/app/router"
	analysisadapters "analytics_backend/internal/feature/analysis/adapters"
	analysishandler "analytics_backend/internal/feature/analysis/transport/handler"
	analysisusecase "analytics_backend/internal/feature/analysis/usecase"
	authadapters "analytics_backend/internal/feature/auth/adapters"
	authhandler "analytics_backend/internal/feature/auth/transport/handler"
	authusecase "analytics_backend/internal/feature/auth/usecase"
	dashboardhandler "analytics_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "analytics_backend/internal/feature/dashboard/usecase"
	uploadadapters "analytics_backend/internal/feature/upload/adapters"
	"analytics_backend/internal/feature/upload/parser"
	uploadhandler "analytics_backend/internal/feature/upload/transport/handler"
	uploadusecase "analytics_backend/internal/feature/upload/usecase"
	"analytics_backend/internal/platform/cache"
	jwtmw "analytics_backend/internal/platform/jwt"
)

// Deps are the shared clients the features are built on.
// Redis, Store, Summarizer and Limiter may be nil.
type Deps struct {
	DB         *gorm.DB
	Redis      *goredis.Client
	Store      uploadusecase.ObjectStore
	Summarizer analysisusecase.Summarizer
	Limiter    analysisusecase.Limiter
}

// NewHandlers wires repositories, usecases and handlers for every feature.
func NewHandlers(cfg *config.Config, d Deps) (router.Handlers, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return router.Handlers{}, err
	}

	// Repository
	userRepo := authadapters.NewUserGorm(d.DB)
	uploadRepo := cache.NewCachingUploadRepository(d.Redis, cfg.CacheTTL, uploadadapters.NewUploadGorm(d.DB), "uploads")
	analysisRepo := analysisadapters.NewAnalysisGorm(d.DB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration))
	uploadUC := uploadusecase.NewUploadUsecase(uploadRepo, d.Store, uploadusecase.Options{
		MaxBytes:          cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
		Limits: parser.Limits{
			MaxRows:       cfg.MaxRows,
			MaxCells:      cfg.MaxCells,
			MaxUnzipBytes: cfg.MaxUnzipBytes,
		},
	})
	analysisUC := analysisusecase.NewAnalysisUsecase(analysisRepo, uploadUC, d.Summarizer, d.Limiter, analysisusecase.Options{
		MaxChartImageBytes: cfg.MaxChartImageBytes,
	})
	dashboardUC := dashboardusecase.NewDashboardUsecase(uploadUC, analysisUC)

	return router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		Upload:    uploadhandler.NewUploadHandler(uploadUC, cfg.MaxUploadBytes),
		Analysis:  analysishandler.NewAnalysisHandler(analysisUC, cfg.MaxChartImageBytes),
		Dashboard: dashboardhandler.NewDashboardHandler(dashboardUC),
		DB:        sqlDB,
	}, nil
}
