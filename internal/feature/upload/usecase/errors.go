package usecase

import "analytics_backend/internal/shared/apperror"

// ErrUploadNotFound hides whether an upload is missing or owned by someone else.
var ErrUploadNotFound = apperror.New(apperror.KindNotFound, "upload not found")
