package dto

import (
	"regexp"
	"time"
	"unicode"

	"github.com/diabify/platform/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// ValidateEmail validates email format
func (r *RegisterRequest) ValidateEmail() (bool, string) {
	if !emailPattern.MatchString(r.Email) {
		return false, "invalid email format"
	}
	return true, ""
}

// ValidatePassword validates password strength
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	if len(r.Password) < 8 {
		return false, "password must be at least 8 characters"
	}
	var hasLetter, hasDigit bool
	for _, c := range r.Password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return false, "password must contain both letters and digits"
	}
	return true, ""
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest is the payload for email verification
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest is the payload for requesting a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest is the payload for completing a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// Validate validates the update request
func (r *UpdateProfileRequest) Validate() (bool, string) {
	if r.Name == "" {
		return false, "name must not be empty"
	}
	if len(r.Name) > 200 {
		return false, "name is too long"
	}
	return true, ""
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

// NewUserResponse maps a user to its public view
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// AuthResponse is the result of a successful login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // epoch milliseconds
	User      UserResponse `json:"user"`
}
