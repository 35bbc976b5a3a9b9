// Package entity defines the per-user dashboard read model.
package entity

import (
	analysisentity "analytics_backend/internal/feature/analysis/domain/entity"
	uploadentity "analytics_backend/internal/feature/upload/domain/entity"
)

// Dashboard aggregates a user's uploads and analyses.
type Dashboard struct {
	TotalUploads  int
	TotalAnalyses int
	RecentUploads []uploadentity.UploadSummary
	Analyses      []analysisentity.AnalysisView
}
