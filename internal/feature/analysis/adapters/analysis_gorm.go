package adapters

import (
	"context"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/analysis/domain/entity"
	"analytics_backend/internal/feature/analysis/usecase"
)

// analysisGorm stores analyses in the analyses table.
type analysisGorm struct {
	db *gorm.DB
}

var _ usecase.AnalysisRepository = (*analysisGorm)(nil)

// NewAnalysisGorm returns an AnalysisRepository backed by db.
func NewAnalysisGorm(db *gorm.DB) *analysisGorm {
	return &analysisGorm{db: db}
}

// Create inserts a and copies the generated ID and CreatedAt back into it.
func (r *analysisGorm) Create(ctx context.Context, a *entity.Analysis) error {
	m := FromEntity(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	return nil
}

// joined selects analyses of ownerID with their upload's file name.
func (r *analysisGorm) joined(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("analyses AS a").
		Select("a.*, u.file_name AS upload_file_name").
		Joins("JOIN uploads AS u ON u.id = a.upload_id").
		Where("a.user_id = ?", ownerID)
}

// FindByID returns ErrAnalysisNotFound when id is missing or owned by another user.
func (r *analysisGorm) FindByID(ctx context.Context, ownerID, id uint) (*entity.AnalysisView, error) {
	var rows []analysisRow
	if err := r.joined(ctx, ownerID).Where("a.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, usecase.ErrAnalysisNotFound
	}
	v := rows[0].toView()
	return &v, nil
}

// ListByOwner returns the owner's analyses, newest first.
func (r *analysisGorm) ListByOwner(ctx context.Context, ownerID uint) ([]entity.AnalysisView, error) {
	var rows []analysisRow
	err := r.joined(ctx, ownerID).
		Order("a.created_at DESC").Order("a.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.AnalysisView, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toView())
	}
	return out, nil
}
