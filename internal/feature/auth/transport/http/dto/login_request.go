package dto

// LoginReq is the body of POST /api/users/login.
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
