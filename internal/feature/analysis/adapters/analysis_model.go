// Package adapters provides the gorm-backed analysis repository.
package adapters

import (
	"time"

	"analytics_backend/internal/feature/analysis/domain/entity"
)

// AnalysisModel is the analyses table.
type AnalysisModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:idx_analyses_user_created,priority:1"`
	UploadID   uint      `gorm:"not null;index"`
	XAxis      string    `gorm:"size:255;not null"`
	YAxis      string    `gorm:"size:255;not null"`
	ChartType  string    `gorm:"size:16;not null"`
	AISummary  string    `gorm:"type:text"`
	ChartImage string    // unsized: longtext on MySQL, text elsewhere
	CreatedAt  time.Time `gorm:"index:idx_analyses_user_created,priority:2"`
}

func (AnalysisModel) TableName() string { return "analyses" }

func (m *AnalysisModel) ToEntity() entity.Analysis {
	return entity.Analysis{
		ID:         m.ID,
		UserID:     m.UserID,
		UploadID:   m.UploadID,
		XAxis:      m.XAxis,
		YAxis:      m.YAxis,
		ChartType:  entity.ChartType(m.ChartType),
		AISummary:  m.AISummary,
		ChartImage: m.ChartImage,
		CreatedAt:  m.CreatedAt,
	}
}

func FromEntity(a *entity.Analysis) *AnalysisModel {
	return &AnalysisModel{
		ID:         a.ID,
		UserID:     a.UserID,
		UploadID:   a.UploadID,
		XAxis:      a.XAxis,
		YAxis:      a.YAxis,
		ChartType:  string(a.ChartType),
		AISummary:  a.AISummary,
		ChartImage: a.ChartImage,
		CreatedAt:  a.CreatedAt,
	}
}

// analysisRow is an analyses row joined with its upload's file name.
type analysisRow struct {
	AnalysisModel  `gorm:"embedded"`
	UploadFileName string
}

func (r *analysisRow) toView() entity.AnalysisView {
	return entity.AnalysisView{Analysis: r.AnalysisModel.ToEntity(), UploadFileName: r.UploadFileName}
}
