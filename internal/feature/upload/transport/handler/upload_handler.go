// Package handler provides the HTTP handlers for the upload feature.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/feature/upload/transport/http/dto"
	"analytics_backend/internal/platform/http/params"
	"analytics_backend/internal/platform/http/response"
	jwtmw "analytics_backend/internal/platform/jwt"
	"analytics_backend/internal/shared/apperror"
)

const formField = "file"

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

var (
	errUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")
	errMissingFile     = apperror.New(apperror.KindInvalidInput, `multipart field "file" is required`)
)

// UploadUsecase is what the handler needs from the ingestor.
type UploadUsecase interface {
	Ingest(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error)
	Get(ctx context.Context, ownerID, id uint) (*entity.Upload, error)
	List(ctx context.Context, ownerID uint) ([]entity.Upload, error)
}

type UploadHandler struct {
	uploads  UploadUsecase
	maxBytes int64
}

// NewUploadHandler caps request bodies at maxBytes plus multipart overhead.
func NewUploadHandler(uploads UploadUsecase, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploads: uploads, maxBytes: maxBytes}
}

// Create handles POST /api/uploads.
func (h *UploadHandler) Create(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fh, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(c, apperror.Newf(apperror.KindPayloadTooLarge, "file exceeds the %d byte limit", h.maxBytes))
			return
		}
		slog.Warn("upload form parse failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		response.HandleError(c, errMissingFile)
		return
	}
	if fh.Size > h.maxBytes {
		response.HandleError(c, apperror.Newf(apperror.KindPayloadTooLarge, "file exceeds the %d byte limit", h.maxBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	upload, err := h.uploads.Ingest(c.Request.Context(), userID, data, fh.Filename)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UploadEnvelope{Upload: dto.NewUploadRes(upload)})
}

// List handles GET /api/uploads.
func (h *UploadHandler) List(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}

	uploads, err := h.uploads.List(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	out := make([]dto.UploadRes, 0, len(uploads))
	for i := range uploads {
		out = append(out, dto.NewUploadRes(&uploads[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/uploads/:id.
func (h *UploadHandler) Get(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}
	id, err := params.ID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	upload, err := h.uploads.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UploadEnvelope{Upload: dto.NewUploadRes(upload)})
}
