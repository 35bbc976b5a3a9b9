// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"analytics_backend/internal/feature/auth/domain/entity"
	"analytics_backend/internal/shared/apperror"
)

const (
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordLength = 72
	maxUsernameLength = 100

	// dummyHash is compared against when the email is unknown so both
	// failure paths pay for one bcrypt comparison.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts persistence of users.
// Defined here, by the consumer, rather than in adapters.
type UserRepository interface {
	// Create persists a new user. Returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator issues signed access tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email string) (string, error)
}

type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	validate     *validator.Validate
	bcryptCost   int
}

// NewAuthUsecase wires the auth usecase.
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		validate:     validator.New(),
		bcryptCost:   bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) validateSignup(email, username, password string) error {
	if err := u.validate.Var(email, "required,email,max=255"); err != nil {
		return apperror.New(apperror.KindInvalidInput, "email must be a valid address")
	}
	if len(password) < minPasswordLength {
		return apperror.Newf(apperror.KindInvalidInput, "password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return apperror.Newf(apperror.KindInvalidInput, "password must be at most %d bytes long", maxPasswordLength)
	}
	if len(username) > maxUsernameLength {
		return apperror.Newf(apperror.KindInvalidInput, "username must be at most %d characters long", maxUsernameLength)
	}
	return nil
}

// Signup registers a user and returns an access token for it.
func (u *authUsecase) Signup(ctx context.Context, email, username, password string) (string, *entity.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if err := u.validateSignup(email, username, password); err != nil {
		return "", nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, Username: username, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Login authenticates the user and returns a signed token.
// Unknown emails and wrong passwords return the same error.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
