package jwtmw

import (
	"strings"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/platform/http/response"
	"analytics_backend/internal/shared/apperror"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

var errMissingBearer = apperror.New(apperror.KindUnauthenticated, "missing bearer token")

// Verifier validates a bearer token and yields the caller's user id.
type Verifier interface {
	Verify(tokenStr string) (uint, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.AbortWithError(c, errMissingBearer)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		userID, err := v.Verify(tokenStr)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}
