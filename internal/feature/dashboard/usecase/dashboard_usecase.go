// Package usecase assembles the dashboard from uploads and analyses.
package usecase

import (
	"context"

	analysisentity "analytics_backend/internal/feature/analysis/domain/entity"
	"analytics_backend/internal/feature/dashboard/domain/entity"
	uploadentity "analytics_backend/internal/feature/upload/domain/entity"
)

const (
	DefaultRecent = 5
	MaxRecent     = 50
)

// UploadLister returns an owner's upload summaries newest first. Rows are
// never loaded for the dashboard.
type UploadLister interface {
	ListSummaries(ctx context.Context, ownerID uint) ([]uploadentity.UploadSummary, error)
}

// AnalysisLister returns an owner's analyses newest first.
type AnalysisLister interface {
	List(ctx context.Context, ownerID uint) ([]analysisentity.AnalysisView, error)
}

// DashboardUsecase builds the per-user dashboard read model.
type DashboardUsecase struct {
	uploads  UploadLister
	analyses AnalysisLister
}

// NewDashboardUsecase returns a DashboardUsecase reading from both listers.
func NewDashboardUsecase(uploads UploadLister, analyses AnalysisLister) *DashboardUsecase {
	return &DashboardUsecase{uploads: uploads, analyses: analyses}
}

// Summary returns totals, the most recent uploads and all analyses of ownerID.
// recent <= 0 selects DefaultRecent; larger values are capped at MaxRecent.
func (u *DashboardUsecase) Summary(ctx context.Context, ownerID uint, recent int) (*entity.Dashboard, error) {
	uploads, err := u.uploads.ListSummaries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	analyses, err := u.analyses.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	n := clampRecent(recent)
	if n > len(uploads) {
		n = len(uploads)
	}
	summaries := make([]uploadentity.UploadSummary, 0, n)
	summaries = append(summaries, uploads[:n]...)
	if analyses == nil {
		analyses = []analysisentity.AnalysisView{}
	}

	return &entity.Dashboard{
		TotalUploads:  len(uploads),
		TotalAnalyses: len(analyses),
		RecentUploads: summaries,
		Analyses:      analyses,
	}, nil
}

func clampRecent(recent int) int {
	switch {
	case recent <= 0:
		return DefaultRecent
	case recent > MaxRecent:
		return MaxRecent
	default:
		return recent
	}
}
