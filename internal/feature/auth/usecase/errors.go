package usecase

import "analytics_backend/internal/shared/apperror"

var (
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = apperror.New(apperror.KindNotFound, "user not found")

	// ErrEmailAlreadyExists is returned when signing up with a registered email.
	ErrEmailAlreadyExists = apperror.New(apperror.KindDuplicateIdentity, "email already exists")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
)
