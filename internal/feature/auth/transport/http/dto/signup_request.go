// Package dto defines request and response bodies for the auth endpoints.
package dto

import (
	"time"

	"analytics_backend/internal/feature/auth/domain/entity"
)

// SignupReq is the body of POST /api/users/signup. Format checks live in the usecase.
type SignupReq struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// UserRes is the public view of a user. The password hash is never exposed.
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignupRes is returned after a successful signup.
type SignupRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// NewUserRes converts a user entity to its response form.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}
