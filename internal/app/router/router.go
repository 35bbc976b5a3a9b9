// Package router assembles the gin engine.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "analytics_backend/internal/feature/analysis/transport/handler"
	authhandler "analytics_backend/internal/feature/auth/transport/handler"
	dashboardhandler "analytics_backend/internal/feature/dashboard/transport/handler"
	uploadhandler "analytics_backend/internal/feature/upload/transport/handler"
	"analytics_backend/internal/platform/http/handler"
	jwtmw "analytics_backend/internal/platform/jwt"
)

type Handlers struct {
	Auth      *authhandler.AuthHandler
	Upload    *uploadhandler.UploadHandler
	Analysis  *analysishandler.AnalysisHandler
	Dashboard *dashboardhandler.DashboardHandler
	DB        handler.Pinger
}

type Options struct {
	FrontendURL string
	Verifier    jwtmw.Verifier
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// no auth
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(h.DB))

	users := r.Group("/api/users")
	{
		users.POST("/signup", h.Auth.Signup)
		users.POST("/login", h.Auth.Login)
	}

	// bearer token required
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired(opts.Verifier))
	{
		api.POST("/uploads", h.Upload.Create)
		api.GET("/uploads", h.Upload.List)
		api.GET("/uploads/:id", h.Upload.Get)

		api.POST("/analysis", h.Analysis.Create)
		api.GET("/analysis", h.Analysis.List)
		api.GET("/analysis/:id", h.Analysis.Get)

		api.GET("/dashboard", h.Dashboard.Get)
	}

	return r
}
