package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"analytics_backend/internal/feature/upload/domain/entity"
)

// UploadModel is the uploads table. Header and rows are JSON columns so one
// upload is one row and one INSERT.
type UploadModel struct {
	ID         uint           `gorm:"primaryKey"`
	UserID     uint           `gorm:"not null;index:idx_uploads_user_created,priority:1"`
	FileName   string         `gorm:"size:255;not null"`
	FileSize   int64          `gorm:"not null"`
	RowCount   int            `gorm:"not null"`
	Columns    datatypes.JSON `gorm:"column:column_names;not null"`
	Rows       datatypes.JSON `gorm:"column:row_data;not null"`
	StorageKey string         `gorm:"size:512"`
	CreatedAt  time.Time      `gorm:"index:idx_uploads_user_created,priority:2"`
}

func (UploadModel) TableName() string { return "uploads" }

// ToEntity decodes the JSON columns. Rows decode to float64, string or nil.
func (m *UploadModel) ToEntity() (*entity.Upload, error) {
	u := &entity.Upload{
		ID:         m.ID,
		UserID:     m.UserID,
		FileName:   m.FileName,
		FileSize:   m.FileSize,
		StorageKey: m.StorageKey,
		CreatedAt:  m.CreatedAt,
	}
	if err := json.Unmarshal(m.Columns, &u.Columns); err != nil {
		return nil, fmt.Errorf("decode columns of upload %d: %w", m.ID, err)
	}
	if err := json.Unmarshal(m.Rows, &u.Rows); err != nil {
		return nil, fmt.Errorf("decode rows of upload %d: %w", m.ID, err)
	}
	return u, nil
}

// ToSummary decodes only the header. Rows need not be loaded.
func (m *UploadModel) ToSummary() (entity.UploadSummary, error) {
	s := entity.UploadSummary{
		ID:        m.ID,
		FileName:  m.FileName,
		FileSize:  m.FileSize,
		RowCount:  m.RowCount,
		CreatedAt: m.CreatedAt,
	}
	if err := json.Unmarshal(m.Columns, &s.Columns); err != nil {
		return entity.UploadSummary{}, fmt.Errorf("decode columns of upload %d: %w", m.ID, err)
	}
	return s, nil
}

// FromEntity encodes an upload for insertion.
func FromEntity(u *entity.Upload) (*UploadModel, error) {
	cols, err := json.Marshal(u.Columns)
	if err != nil {
		return nil, fmt.Errorf("encode columns: %w", err)
	}
	rows, err := json.Marshal(u.Rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return &UploadModel{
		ID:         u.ID,
		UserID:     u.UserID,
		FileName:   u.FileName,
		FileSize:   u.FileSize,
		RowCount:   len(u.Rows),
		Columns:    datatypes.JSON(cols),
		Rows:       datatypes.JSON(rows),
		StorageKey: u.StorageKey,
		CreatedAt:  u.CreatedAt,
	}, nil
}
