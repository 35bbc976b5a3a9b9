// Package entity defines the dataset types produced by spreadsheet ingestion.
package entity

import "time"

// Row is one data row keyed by column name. Values are float64, string or nil.
type Row map[string]any

// Upload is a parsed spreadsheet owned by one user. Columns is the ordered
// header and every Row has exactly those keys.
type Upload struct {
	ID         uint
	UserID     uint
	FileName   string
	FileSize   int64
	Columns    []string
	Rows       []Row
	StorageKey string
	CreatedAt  time.Time
}

// HasColumn reports whether name is part of the header.
func (u *Upload) HasColumn(name string) bool {
	for _, c := range u.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Summary drops the rows for list views.
func (u *Upload) Summary() UploadSummary {
	return UploadSummary{
		ID:        u.ID,
		FileName:  u.FileName,
		FileSize:  u.FileSize,
		RowCount:  len(u.Rows),
		Columns:   u.Columns,
		CreatedAt: u.CreatedAt,
	}
}

// UploadSummary is an Upload without its rows.
type UploadSummary struct {
	ID        uint
	FileName  string
	FileSize  int64
	RowCount  int
	Columns   []string
	CreatedAt time.Time
}
