package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics_backend/internal/feature/auth/domain/entity"
	"analytics_backend/internal/shared/apperror"
)

type mockAuthUsecase struct {
	SignupFunc func(ctx context.Context, email, username, password string) (string, *entity.User, error)
	LoginFunc  func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthUsecase) Signup(ctx context.Context, email, username, password string) (string, *entity.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, username, password)
	}
	return "", nil, errors.New("signup not stubbed")
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", errors.New("login not stubbed")
}

func performJSON(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		signup         func(ctx context.Context, email, username, password string) (string, *entity.User, error)
		expectedStatus int
		expectedKind   string
	}{
		{
			name: "success",
			body: `{"email":"a@x.com","username":"alice","password":"secret"}`,
			signup: func(ctx context.Context, email, username, password string) (string, *entity.User, error) {
				return "tok", &entity.User{ID: 3, Email: email, Username: username, Password: "hash", CreatedAt: created}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   string(apperror.KindInvalidInput),
		},
		{
			name:           "missing password",
			body:           `{"email":"a@x.com"}`,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   string(apperror.KindInvalidInput),
		},
		{
			name: "duplicate email",
			body: `{"email":"a@x.com","password":"secret"}`,
			signup: func(ctx context.Context, email, username, password string) (string, *entity.User, error) {
				return "", nil, apperror.New(apperror.KindDuplicateIdentity, "email already exists")
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   string(apperror.KindDuplicateIdentity),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{SignupFunc: tt.signup})

			w := performJSON(t, h.Signup, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, body["kind"])
				return
			}
			assert.Equal(t, "tok", body["token"])
			user := body["user"].(map[string]any)
			assert.Equal(t, float64(3), user["id"])
			assert.Equal(t, "alice", user["username"])
			assert.NotContains(t, user, "password")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		login          func(ctx context.Context, email, password string) (string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           `{"email":"a@x.com","password":"secret"}`,
			login:          func(ctx context.Context, email, password string) (string, error) { return "tok", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"token":"tok"}`,
		},
		{
			name: "invalid credentials",
			body: `{"email":"a@x.com","password":"nope"}`,
			login: func(ctx context.Context, email, password string) (string, error) {
				return "", apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid email or password","kind":"InvalidCredentials"}`,
		},
		{
			name:           "missing fields",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request","kind":"InvalidInput"}`,
		},
		{
			name:           "internal failure hides details",
			body:           `{"email":"a@x.com","password":"secret"}`,
			login:          func(ctx context.Context, email, password string) (string, error) { return "", errors.New("db down") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error","kind":"Internal"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.login})

			w := performJSON(t, h.Login, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
