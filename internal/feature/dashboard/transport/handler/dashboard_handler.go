package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/feature/dashboard/domain/entity"
	"analytics_backend/internal/feature/dashboard/transport/http/dto"
	"analytics_backend/internal/platform/http/params"
	"analytics_backend/internal/platform/http/response"
	jwtmw "analytics_backend/internal/platform/jwt"
	"analytics_backend/internal/shared/apperror"
)

var errUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")

type DashboardUsecase interface {
	Summary(ctx context.Context, ownerID uint, recent int) (*entity.Dashboard, error)
}

type DashboardHandler struct {
	uc DashboardUsecase
}

func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get handles GET /api/dashboard?recent=N. A missing or malformed recent
// falls back to the usecase default.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		response.HandleError(c, errUnauthenticated)
		return
	}

	d, err := h.uc.Summary(c.Request.Context(), userID, params.IntOr(c.Query("recent"), 0))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDashboardRes(d))
}
