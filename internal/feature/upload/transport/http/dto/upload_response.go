// Package dto defines the JSON bodies of the upload endpoints.
package dto

import (
	"time"

	"analytics_backend/internal/feature/upload/domain/entity"
)

// UploadRes is the full upload including its parsed rows.
type UploadRes struct {
	ID         uint         `json:"id"`
	FileName   string       `json:"fileName"`
	FileSize   int64        `json:"fileSize"`
	Columns    []string     `json:"columns"`
	ParsedData []entity.Row `json:"parsedData"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// UploadEnvelope wraps single-upload responses as {"upload": {...}}.
type UploadEnvelope struct {
	Upload UploadRes `json:"upload"`
}

// UploadSummaryRes is an upload without rows.
type UploadSummaryRes struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	RowCount  int       `json:"rowCount"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUploadRes converts an upload including its rows.
func NewUploadRes(u *entity.Upload) UploadRes {
	return UploadRes{
		ID:         u.ID,
		FileName:   u.FileName,
		FileSize:   u.FileSize,
		Columns:    u.Columns,
		ParsedData: u.Rows,
		CreatedAt:  u.CreatedAt,
	}
}

// NewUploadSummaryRes converts a summary into its response body.
func NewUploadSummaryRes(s entity.UploadSummary) UploadSummaryRes {
	return UploadSummaryRes{
		ID:        s.ID,
		FileName:  s.FileName,
		FileSize:  s.FileSize,
		RowCount:  s.RowCount,
		Columns:   s.Columns,
		CreatedAt: s.CreatedAt,
	}
}
