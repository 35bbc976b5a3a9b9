// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/auth/domain/entity"
	"analytics_backend/internal/feature/auth/transport/http/dto"
	"analytics_backend/internal/platform/http/response"
	"analytics_backend/internal/shared/apperror"
)

var errInvalidRequest = apperror.New(apperror.KindInvalidInput, "invalid request")

// AuthUsecase is the subset of the auth usecase the handler needs.
type AuthUsecase interface {
	Signup(ctx context.Context, email, username, password string) (string, *entity.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler serves signup and login.
type AuthHandler struct {
	auth AuthUsecase
}

func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /api/users/signup and responds 201 with a token and the user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		response.HandleError(c, errInvalidRequest)
		return
	}

	token, user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		response.HandleError(c, err)
		return
	}

	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SignupRes{Token: token, User: dto.NewUserRes(user)})
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		response.HandleError(c, errInvalidRequest)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// the email is not logged so failed attempts do not leak which accounts exist
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		response.HandleError(c, err)
		return
	}

	slog.Info("user login successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}
