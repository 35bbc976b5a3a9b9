package usecase

import "analytics_backend/internal/shared/apperror"

var (
	// ErrAnalysisNotFound hides whether an analysis is missing or foreign.
	ErrAnalysisNotFound = apperror.New(apperror.KindNotFound, "analysis not found")

	ErrInvalidChartType = apperror.New(apperror.KindInvalidChartType, "chart type must be one of bar, line, pie, scatter")
	ErrNonNumericYAxis  = apperror.New(apperror.KindInvalidColumn, "y-axis column must be numeric")
)
