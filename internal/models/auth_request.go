package models

// SignupRequest represents the request body for user registration
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest represents the request body for user login.
// Email format is not checked: a malformed address fails like an unknown one.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest represents the request body for a password reset email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}
