package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/response"
)

const (
	userTokenCookie  = "userToken"
	adminTokenCookie = "adminToken"
	cookieMaxAge     = 86400
)

// setSessionCookie writes an HttpOnly session cookie
func setSessionCookie(c *gin.Context, name, value string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, cookieMaxAge, "/", "", secure, true)
}

// clearSessionCookie removes a session cookie
func clearSessionCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}

// AuthHandler handles user authentication HTTP requests
type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if valid, msg := req.ValidateEmail(); !valid {
		response.Error(c, http.StatusBadRequest, "INVALID_EMAIL", msg, "")
		return
	}
	if valid, msg := req.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	user, _, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Error(c, http.StatusConflict, "USER_EXISTS", "User with this email already exists", "")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, dto.NewUserResponse(user))
}

// VerifyEmail handles email verification
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVerificationToken) {
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or already used verification token", "")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, issued, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", "")
		case errors.Is(err, service.ErrUserInactive):
			response.Error(c, http.StatusForbidden, "USER_INACTIVE", "User account is inactive", "")
		case errors.Is(err, service.ErrUserNotVerified):
			response.Error(c, http.StatusForbidden, "USER_NOT_VERIFIED", "Email address is not verified", "")
		default:
			response.InternalError(c, err)
		}
		return
	}

	setSessionCookie(c, userTokenCookie, issued.Token, h.cookieSecure)
	response.Success(c, dto.AuthResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.UnixMilli(),
		User:      dto.NewUserResponse(user),
	})
}

// Logout clears the user session cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c, userTokenCookie, h.cookieSecure)
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found")
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// UpdateProfile updates the authenticated user's profile
// PATCH /api/v1/auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.Validate(); !valid {
		response.BadRequest(c, msg)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// ForgotPassword issues a password reset token
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// The response is the same whether or not the account exists.
	if _, err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "If the account exists, a reset link has been sent"})
}

// ResetPassword completes a password reset
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	probe := dto.RegisterRequest{Password: req.NewPassword}
	if valid, msg := probe.ValidatePassword(); !valid {
		response.Error(c, http.StatusBadRequest, "WEAK_PASSWORD", msg, "")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or already used reset token", "")
		case errors.Is(err, service.ErrResetTokenExpired):
			response.Error(c, http.StatusBadRequest, "TOKEN_EXPIRED", "Reset token has expired", "")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, gin.H{"message": "Password updated"})
}
