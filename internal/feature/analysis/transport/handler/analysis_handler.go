// Package handler provides the HTTP handlers for the analysis feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/feature/analysis/domain/entity"
	"analytics_backend/internal/feature/analysis/transport/http/dto"
	"analytics_backend/internal/feature/analysis/usecase"
	"analytics_backend/internal/platform/http/params"
	"analytics_backend/internal/platform/http/response"
	jwtmw "analytics_backend/internal/platform/jwt"
	"analytics_backend/internal/shared/apperror"
)

// room for the JSON fields and summary text around the chart image
const bodyOverhead = 256 << 10

var (
	errUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")
	errInvalidRequest  = apperror.New(apperror.KindInvalidInput, "uploadId, xAxis, yAxis and chartType are required")
)

// AnalysisUsecase is what the handler needs from the analysis service.
type AnalysisUsecase interface {
	Create(ctx context.Context, ownerID uint, in usecase.CreateInput) (*entity.AnalysisView, error)
	List(ctx context.Context, ownerID uint) ([]entity.AnalysisView, error)
	Get(ctx context.Context, ownerID, id uint) (*entity.AnalysisView, error)
}

// AnalysisHandler serves the /api/analysis routes.
type AnalysisHandler struct {
	analyses AnalysisUsecase
	maxBody  int64
}

// NewAnalysisHandler caps create bodies at maxImageBytes plus overhead.
// maxImageBytes <= 0 leaves bodies unbounded.
func NewAnalysisHandler(analyses AnalysisUsecase, maxImageBytes int) *AnalysisHandler {
	h := &AnalysisHandler{analyses: analyses}
	if maxImageBytes > 0 {
		h.maxBody = int64(maxImageBytes) + bodyOverhead
	}
	return h
}

// Create handles POST /api/analysis.
func (h *AnalysisHandler) Create(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}

	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}

	var req dto.CreateAnalysisReq
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(c, apperror.Newf(apperror.KindPayloadTooLarge, "request body exceeds %d bytes", h.maxBody))
			return
		}
		slog.Warn("analysis validation failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		response.HandleError(c, errInvalidRequest)
		return
	}

	view, err := h.analyses.Create(c.Request.Context(), userID, usecase.CreateInput{
		UploadID:        req.UploadID,
		XAxis:           req.XAxis,
		YAxis:           req.YAxis,
		ChartType:       req.ChartType,
		AISummary:       req.AISummary,
		ChartImage:      req.ChartImage,
		GenerateSummary: req.GenerateSummary,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AnalysisEnvelope{Analysis: dto.NewAnalysisRes(view)})
}

// List handles GET /api/analysis.
func (h *AnalysisHandler) List(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}

	views, err := h.analyses.List(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnalysisList(views))
}

// Get handles GET /api/analysis/:id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}
	id, err := params.ID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	view, err := h.analyses.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnalysisEnvelope{Analysis: dto.NewAnalysisRes(view)})
}
