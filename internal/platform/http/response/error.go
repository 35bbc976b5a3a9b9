// Package response maps application errors to HTTP responses.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/api"
	"analytics_backend/internal/shared/apperror"
)

// StatusFor returns the HTTP status code for an error kind.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindUnauthenticated, apperror.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// HandleError writes err as a JSON error body with the matching status.
// Internal errors are logged and replaced by a generic message.
func HandleError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		slog.Error("unhandled internal error",
			"error", err, "method", c.Request.Method, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	c.JSON(status, api.ErrorResponse{Error: apperror.MessageOf(err), Kind: string(kind)})
}

// AbortWithError is HandleError for middleware: it also stops the chain.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}
