// Package usecase implements spreadsheet ingestion and dataset reads.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/feature/upload/parser"
	"analytics_backend/internal/shared/apperror"
)

// UploadRepository persists uploads. Reads are always scoped to an owner.
type UploadRepository interface {
	// Create inserts the upload in one statement and sets ID and CreatedAt.
	Create(ctx context.Context, upload *entity.Upload) error
	// FindByID returns ErrUploadNotFound unless the upload exists and belongs to ownerID.
	FindByID(ctx context.Context, ownerID, id uint) (*entity.Upload, error)
	// ListByOwner returns the owner's uploads, newest first.
	ListByOwner(ctx context.Context, ownerID uint) ([]entity.Upload, error)
	// ListSummariesByOwner is ListByOwner without the rows.
	ListSummariesByOwner(ctx context.Context, ownerID uint) ([]entity.UploadSummary, error)
}

// ObjectStore archives raw files. Optional.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Options bounds what Ingest accepts. Zero Limits fields fall back to the
// parser defaults.
type Options struct {
	MaxBytes          int64
	AllowedExtensions []string
	Limits            parser.Limits
}

type uploadUsecase struct {
	repo  UploadRepository
	store ObjectStore
	opts  Options
	now   func() time.Time
}

// NewUploadUsecase wires the ingestor. store may be nil to disable archiving.
func NewUploadUsecase(repo UploadRepository, store ObjectStore, opts Options) *uploadUsecase {
	return &uploadUsecase{repo: repo, store: store, opts: opts, now: time.Now}
}

// Ingest validates and parses data, archives it when a store is configured,
// and persists the result as one upload. Nothing is persisted on failure.
func (u *uploadUsecase) Ingest(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error) {
	if u.opts.MaxBytes > 0 && int64(len(data)) > u.opts.MaxBytes {
		return nil, apperror.Newf(apperror.KindPayloadTooLarge, "file exceeds the %d byte limit", u.opts.MaxBytes)
	}

	fileName = cleanFileName(fileName)
	if fileName == "" {
		return nil, apperror.New(apperror.KindInvalidInput, "file name is required")
	}

	format, err := parser.DetectFormat(fileName, data, u.opts.AllowedExtensions)
	if err != nil {
		return nil, err
	}

	table, err := parser.ParseWithLimits(format, data, u.opts.Limits)
	if err != nil {
		slog.Warn("spreadsheet parse failed", "user_id", ownerID, "file_name", fileName, "error", err)
		return nil, err
	}

	upload := &entity.Upload{
		UserID:   ownerID,
		FileName: fileName,
		FileSize: int64(len(data)),
		Columns:  table.Columns,
		Rows:     table.Rows,
	}

	if u.store != nil {
		key := objectKey(ownerID, u.now(), fileName)
		if err := u.store.Put(ctx, key, data, mimetype.Detect(data).String()); err != nil {
			return nil, fmt.Errorf("archive upload: %w", err)
		}
		upload.StorageKey = key
	}

	if err := u.repo.Create(ctx, upload); err != nil {
		if upload.StorageKey != "" {
			// the request context may already be cancelled
			if delErr := u.store.Delete(context.WithoutCancel(ctx), upload.StorageKey); delErr != nil {
				slog.Warn("failed to remove orphaned object", "key", upload.StorageKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("persist upload: %w", err)
	}

	slog.Info("upload ingested",
		"user_id", ownerID, "upload_id", upload.ID, "rows", len(upload.Rows), "columns", len(upload.Columns))
	return upload, nil
}

// Get returns one of the owner's uploads.
func (u *uploadUsecase) Get(ctx context.Context, ownerID, id uint) (*entity.Upload, error) {
	return u.repo.FindByID(ctx, ownerID, id)
}

// List returns the owner's uploads, newest first.
func (u *uploadUsecase) List(ctx context.Context, ownerID uint) ([]entity.Upload, error) {
	return u.repo.ListByOwner(ctx, ownerID)
}

// ListSummaries returns the owner's uploads without rows, newest first.
func (u *uploadUsecase) ListSummaries(ctx context.Context, ownerID uint) ([]entity.UploadSummary, error) {
	return u.repo.ListSummariesByOwner(ctx, ownerID)
}

func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// objectKey lays keys out as uploads/<owner>/<yyyy>/<mm>/<dd>/<uuid>/<fileName>.
func objectKey(ownerID uint, t time.Time, fileName string) string {
	return fmt.Sprintf("uploads/%d/%04d/%02d/%02d/%s/%s",
		ownerID, t.Year(), int(t.Month()), t.Day(), uuid.New(), fileName)
}
