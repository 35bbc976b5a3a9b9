// Package dto defines the JSON bodies of the analysis endpoints.
package dto

import (
	"time"

	"analytics_backend/internal/feature/analysis/domain/entity"
)

// CreateAnalysisReq is the body of POST /api/analysis.
type CreateAnalysisReq struct {
	UploadID        uint   `json:"uploadId" binding:"required"`
	XAxis           string `json:"xAxis" binding:"required"`
	YAxis           string `json:"yAxis" binding:"required"`
	ChartType       string `json:"chartType" binding:"required"`
	AISummary       string `json:"aiSummary"`
	ChartImage      string `json:"chartImage"`
	GenerateSummary bool   `json:"generateSummary"`
}

// UploadRef names the upload an analysis was built from.
type UploadRef struct {
	ID       uint   `json:"id"`
	FileName string `json:"fileName"`
}

// AnalysisRes is one analysis as returned by the API.
type AnalysisRes struct {
	ID         uint      `json:"id"`
	UploadID   uint      `json:"uploadId"`
	XAxis      string    `json:"xAxis"`
	YAxis      string    `json:"yAxis"`
	ChartType  string    `json:"chartType"`
	AISummary  string    `json:"aiSummary,omitempty"`
	ChartImage string    `json:"chartImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Upload     UploadRef `json:"upload"`
}

// AnalysisEnvelope wraps single-analysis responses as {"analysis": {...}}.
type AnalysisEnvelope struct {
	Analysis AnalysisRes `json:"analysis"`
}

// NewAnalysisRes converts a view into its response body.
func NewAnalysisRes(v *entity.AnalysisView) AnalysisRes {
	return AnalysisRes{
		ID:         v.ID,
		UploadID:   v.UploadID,
		XAxis:      v.XAxis,
		YAxis:      v.YAxis,
		ChartType:  string(v.ChartType),
		AISummary:  v.AISummary,
		ChartImage: v.ChartImage,
		CreatedAt:  v.CreatedAt,
		Upload:     UploadRef{ID: v.UploadID, FileName: v.UploadFileName},
	}
}

// NewAnalysisList converts views, returning an empty (not nil) slice.
func NewAnalysisList(views []entity.AnalysisView) []AnalysisRes {
	out := make([]AnalysisRes, 0, len(views))
	for i := range views {
		out = append(out, NewAnalysisRes(&views[i]))
	}
	return out
}
