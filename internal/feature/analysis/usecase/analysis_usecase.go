// Package usecase implements chart analysis creation and reads.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"analytics_backend/internal/feature/analysis/domain/entity"
	uploadentity "analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/shared/apperror"
)

// maxSamplePoints bounds how much of the dataset is sent to the summarizer.
const maxSamplePoints = 50

// AnalysisRepository persists analyses. Reads are owner-scoped and joined with the upload name.
type AnalysisRepository interface {
	Create(ctx context.Context, a *entity.Analysis) error
	FindByID(ctx context.Context, ownerID, id uint) (*entity.AnalysisView, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]entity.AnalysisView, error)
}

// UploadGetter resolves an upload for its owner, failing with NotFound otherwise.
type UploadGetter interface {
	Get(ctx context.Context, ownerID, id uint) (*uploadentity.Upload, error)
}

// Point is one (x, y) pair of a chart.
type Point struct {
	X any
	Y float64
}

// SummaryRequest describes the chart to summarize.
type SummaryRequest struct {
	FileName  string
	XAxis     string
	YAxis     string
	ChartType entity.ChartType
	Points    []Point
	RowCount  int
}

// Summarizer writes a short natural-language description of a chart.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// Limiter throttles summarizer calls.
type Limiter interface {
	Allow() bool
}

// CreateInput is the caller's chart definition.
type CreateInput struct {
	UploadID        uint
	XAxis           string
	YAxis           string
	ChartType       string
	AISummary       string
	ChartImage      string
	GenerateSummary bool
}

// Options bounds what Create accepts. Zero disables the chart image cap.
type Options struct {
	MaxChartImageBytes int
}

type analysisUsecase struct {
	repo       AnalysisRepository
	uploads    UploadGetter
	summarizer Summarizer
	limiter    Limiter
	opts       Options
}

// NewAnalysisUsecase wires the service. summarizer and limiter may be nil.
func NewAnalysisUsecase(repo AnalysisRepository, uploads UploadGetter, summarizer Summarizer, limiter Limiter, opts Options) *analysisUsecase {
	return &analysisUsecase{
		repo:       repo,
		uploads:    uploads,
		summarizer: summarizer,
		limiter:    limiter,
		opts:       opts,
	}
}

// Create validates the chart against the owner's upload and stores it.
func (u *analysisUsecase) Create(ctx context.Context, ownerID uint, in CreateInput) (*entity.AnalysisView, error) {
	upload, err := u.uploads.Get(ctx, ownerID, in.UploadID)
	if err != nil {
		return nil, err
	}

	// Column errors win over a bad chart type.
	xAxis, yAxis := strings.TrimSpace(in.XAxis), strings.TrimSpace(in.YAxis)
	if !upload.HasColumn(xAxis) {
		return nil, apperror.Newf(apperror.KindInvalidColumn, "x-axis column %q does not exist in upload", xAxis)
	}
	if !upload.HasColumn(yAxis) {
		return nil, apperror.Newf(apperror.KindInvalidColumn, "y-axis column %q does not exist in upload", yAxis)
	}
	if !isNumericColumn(upload.Rows, yAxis) {
		return nil, ErrNonNumericYAxis
	}

	chartType, ok := entity.ParseChartType(in.ChartType)
	if !ok {
		return nil, ErrInvalidChartType
	}

	if limit := u.opts.MaxChartImageBytes; limit > 0 && len(in.ChartImage) > limit {
		return nil, apperror.Newf(apperror.KindInvalidInput, "chart image exceeds %d bytes", limit)
	}

	a := &entity.Analysis{
		UserID:     ownerID,
		UploadID:   upload.ID,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ChartType:  chartType,
		AISummary:  strings.TrimSpace(in.AISummary),
		ChartImage: in.ChartImage,
	}
	if a.AISummary == "" && in.GenerateSummary {
		a.AISummary = u.summarize(ctx, upload, a)
	}

	if err := u.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	slog.Info("analysis created", "user_id", ownerID, "analysis_id", a.ID, "upload_id", upload.ID, "chart_type", chartType)
	return &entity.AnalysisView{Analysis: *a, UploadFileName: upload.FileName}, nil
}

// summarize never fails the create; problems are logged and yield "".
func (u *analysisUsecase) summarize(ctx context.Context, upload *uploadentity.Upload, a *entity.Analysis) string {
	if u.summarizer == nil {
		return ""
	}
	if u.limiter != nil && !u.limiter.Allow() {
		slog.Warn("summary skipped: rate limited", "user_id", a.UserID, "upload_id", upload.ID)
		return ""
	}

	summary, err := u.summarizer.Summarize(ctx, SummaryRequest{
		FileName:  upload.FileName,
		XAxis:     a.XAxis,
		YAxis:     a.YAxis,
		ChartType: a.ChartType,
		Points:    samplePoints(upload.Rows, a.XAxis, a.YAxis, maxSamplePoints),
		RowCount:  len(upload.Rows),
	})
	if err != nil {
		slog.Warn("summary generation failed", "user_id", a.UserID, "upload_id", upload.ID, "error", err)
		return ""
	}
	return strings.TrimSpace(summary)
}

// List returns the owner's analyses, newest first.
func (u *analysisUsecase) List(ctx context.Context, ownerID uint) ([]entity.AnalysisView, error) {
	return u.repo.ListByOwner(ctx, ownerID)
}

// Get returns one of the owner's analyses.
func (u *analysisUsecase) Get(ctx context.Context, ownerID, id uint) (*entity.AnalysisView, error) {
	return u.repo.FindByID(ctx, ownerID, id)
}

// isNumericColumn requires at least one number and no strings; blanks are allowed.
func isNumericColumn(rows []uploadentity.Row, col string) bool {
	hasNumber := false
	for _, row := range rows {
		switch row[col].(type) {
		case float64:
			hasNumber = true
		case nil:
		default:
			return false
		}
	}
	return hasNumber
}

func samplePoints(rows []uploadentity.Row, x, y string, limit int) []Point {
	points := make([]Point, 0, min(limit, len(rows)))
	for _, row := range rows {
		v, ok := row[y].(float64)
		if !ok {
			continue
		}
		points = append(points, Point{X: row[x], Y: v})
		if len(points) == limit {
			break
		}
	}
	return points
}
