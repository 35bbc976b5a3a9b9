package dto

import (
	analysisdto "analytics_backend/internal/feature/analysis/transport/http/dto"
	"analytics_backend/internal/feature/dashboard/domain/entity"
	uploaddto "analytics_backend/internal/feature/upload/transport/http/dto"
)

// DashboardRes is the body of GET /api/dashboard.
type DashboardRes struct {
	TotalUploads  int                          `json:"totalUploads"`
	TotalAnalyses int                          `json:"totalAnalyses"`
	RecentUploads []uploaddto.UploadSummaryRes `json:"recentUploads"`
	Analyses      []analysisdto.AnalysisRes    `json:"analyses"`
}

func NewDashboardRes(d *entity.Dashboard) DashboardRes {
	recent := make([]uploaddto.UploadSummaryRes, 0, len(d.RecentUploads))
	for _, s := range d.RecentUploads {
		recent = append(recent, uploaddto.NewUploadSummaryRes(s))
	}
	return DashboardRes{
		TotalUploads:  d.TotalUploads,
		TotalAnalyses: d.TotalAnalyses,
		RecentUploads: recent,
		Analyses:      analysisdto.NewAnalysisList(d.Analyses),
	}
}
