package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics_backend/internal/feature/upload/domain/entity"
	jwtmw "analytics_backend/internal/platform/jwt"
	"analytics_backend/internal/shared/apperror"
)

type mockUploadUsecase struct {
	IngestFunc func(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error)
	GetFunc    func(ctx context.Context, ownerID, id uint) (*entity.Upload, error)
	ListFunc   func(ctx context.Context, ownerID uint) ([]entity.Upload, error)
}

func (m *mockUploadUsecase) Ingest(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, ownerID, data, fileName)
	}
	return nil, errors.New("ingest not stubbed")
}

func (m *mockUploadUsecase) Get(ctx context.Context, ownerID, id uint) (*entity.Upload, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, id)
	}
	return nil, apperror.New(apperror.KindNotFound, "upload not found")
}

func (m *mockUploadUsecase) List(ctx context.Context, ownerID uint) ([]entity.Upload, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

// newRouter mounts the handler behind a stub that authenticates as userID.
func newRouter(h *UploadHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(jwtmw.ContextUserID, userID)
		}
		c.Next()
	})
	r.POST("/api/uploads", h.Create)
	r.GET("/api/uploads", h.List)
	r.GET("/api/uploads/:id", h.Get)
	return r
}

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func sampleUpload() *entity.Upload {
	return &entity.Upload{
		ID:        9,
		UserID:    1,
		FileName:  "sales.csv",
		FileSize:  20,
		Columns:   []string{"Month", "Revenue"},
		Rows:      []entity.Row{{"Month": "Jan", "Revenue": 10.0}},
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUploadHandler_Create(t *testing.T) {
	var gotOwner uint
	var gotName string
	var gotData []byte
	uc := &mockUploadUsecase{
		IngestFunc: func(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error) {
			gotOwner, gotName, gotData = ownerID, fileName, data
			return sampleUpload(), nil
		},
	}
	router := newRouter(NewUploadHandler(uc, 1024), 1)

	body, ctype := multipartBody(t, "file", "sales.csv", []byte("Month,Revenue\nJan,10\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(1), gotOwner)
	assert.Equal(t, "sales.csv", gotName)
	assert.Equal(t, "Month,Revenue\nJan,10\n", string(gotData))

	var res struct {
		Upload struct {
			ID         uint             `json:"id"`
			FileName   string           `json:"fileName"`
			Columns    []string         `json:"columns"`
			ParsedData []map[string]any `json:"parsedData"`
		} `json:"upload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, uint(9), res.Upload.ID)
	assert.Equal(t, []string{"Month", "Revenue"}, res.Upload.Columns)
	assert.Equal(t, 10.0, res.Upload.ParsedData[0]["Revenue"])
}

func TestUploadHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		content    []byte
		maxBytes   int64
		ingestErr  error
		wantStatus int
		wantKind   apperror.Kind
	}{
		{"missing file field", "other", []byte("x"), 1024, nil, http.StatusBadRequest, apperror.KindInvalidInput},
		{"file over limit", "file", bytes.Repeat([]byte("a"), 100), 10, nil, http.StatusBadRequest, apperror.KindPayloadTooLarge},
		{"parse error", "file", []byte("Month\n"), 1024, apperror.New(apperror.KindParseError, "sheet has no data rows"), http.StatusBadRequest, apperror.KindParseError},
		{"unsupported", "file", []byte("x"), 1024, apperror.New(apperror.KindUnsupportedFormat, "unsupported file type"), http.StatusBadRequest, apperror.KindUnsupportedFormat},
		{"internal", "file", []byte("x"), 1024, errors.New("disk full"), http.StatusInternalServerError, apperror.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUploadUsecase{
				IngestFunc: func(ctx context.Context, ownerID uint, data []byte, fileName string) (*entity.Upload, error) {
					if tt.ingestErr == nil {
						t.Fatal("usecase must not be called")
					}
					return nil, tt.ingestErr
				},
			}
			router := newRouter(NewUploadHandler(uc, tt.maxBytes), 1)

			body, ctype := multipartBody(t, tt.field, "sales.csv", tt.content)
			req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
			req.Header.Set("Content-Type", ctype)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var res map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, string(tt.wantKind), res["kind"])
		})
	}
}

func TestUploadHandler_RequiresUser(t *testing.T) {
	router := newRouter(NewUploadHandler(&mockUploadUsecase{}, 1024), 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadHandler_List(t *testing.T) {
	uc := &mockUploadUsecase{
		ListFunc: func(ctx context.Context, ownerID uint) ([]entity.Upload, error) {
			if ownerID != 1 {
				return nil, nil
			}
			return []entity.Upload{*sampleUpload()}, nil
		},
	}

	w := httptest.NewRecorder()
	newRouter(NewUploadHandler(uc, 1024), 1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = httptest.NewRecorder()
	newRouter(NewUploadHandler(uc, 1024), 2).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUploadHandler_Get(t *testing.T) {
	uc := &mockUploadUsecase{
		GetFunc: func(ctx context.Context, ownerID, id uint) (*entity.Upload, error) {
			if ownerID == 1 && id == 9 {
				return sampleUpload(), nil
			}
			return nil, apperror.New(apperror.KindNotFound, "upload not found")
		},
	}

	tests := []struct {
		name       string
		userID     uint
		path       string
		wantStatus int
	}{
		{"owner", 1, "/api/uploads/9", http.StatusOK},
		{"other tenant", 2, "/api/uploads/9", http.StatusNotFound},
		{"missing", 1, "/api/uploads/10", http.StatusNotFound},
		{"bad id", 1, "/api/uploads/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(NewUploadHandler(uc, 1024), tt.userID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
