// Package adapters provides the gorm-backed upload repository.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/feature/upload/usecase"
)

type uploadGorm struct {
	db *gorm.DB
}

var _ usecase.UploadRepository = (*uploadGorm)(nil)

// NewUploadGorm returns an UploadRepository backed by db.
func NewUploadGorm(db *gorm.DB) *uploadGorm {
	return &uploadGorm{db: db}
}

// Create inserts header and rows as a single row and copies the generated
// ID and CreatedAt back to u.
func (r *uploadGorm) Create(ctx context.Context, u *entity.Upload) error {
	m, err := FromEntity(u)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

// FindByID filters on owner as well as id so foreign uploads look missing.
func (r *uploadGorm) FindByID(ctx context.Context, ownerID, id uint) (*entity.Upload, error) {
	var m UploadModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUploadNotFound
		}
		return nil, err
	}
	return m.ToEntity()
}

// ListByOwner returns the owner's uploads with their rows, newest first.
func (r *uploadGorm) ListByOwner(ctx context.Context, ownerID uint) ([]entity.Upload, error) {
	var models []UploadModel
	err := r.ownedBy(ctx, ownerID).Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.Upload, 0, len(models))
	for i := range models {
		u, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

// ListSummariesByOwner reads the same list without the row_data column.
// RowCount comes from the stored row_count.
func (r *uploadGorm) ListSummariesByOwner(ctx context.Context, ownerID uint) ([]entity.UploadSummary, error) {
	var models []UploadModel
	err := r.ownedBy(ctx, ownerID).Omit("row_data").Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.UploadSummary, 0, len(models))
	for i := range models {
		s, err := models[i].ToSummary()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *uploadGorm) ownedBy(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC")
}
