package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/internal/token"
	"github.com/diabify/platform/pkg/response"
)

// AdminHandler handles admin session HTTP requests
type AdminHandler struct {
	adminService service.AdminService
	cookieSecure bool
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, cookieSecure bool) *AdminHandler {
	return &AdminHandler{adminService: adminService, cookieSecure: cookieSecure}
}

// Login checks the admin secret and starts an admin session
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "password is required")
		return
	}

	issued, err := h.adminService.Login(c.Request.Context(), req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSecret):
			response.Unauthorized(c, "Invalid password")
		case errors.Is(err, service.ErrTooManyAttempts):
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts", "")
		case errors.Is(err, service.ErrPrincipalNotFound):
			response.NotFound(c, "Admin account not found")
		default:
			response.InternalError(c, err)
		}
		return
	}

	setSessionCookie(c, adminTokenCookie, issued.Token, h.cookieSecure)
	response.Success(c, dto.AdminLoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.UnixMilli(),
	})
}

// VerifyAccess validates an admin token and re-checks the stored role
// POST /api/v1/admin/verify-access
func (h *AdminHandler) VerifyAccess(c *gin.Context) {
	var req dto.AdminVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.AdminToken == "" {
		response.BadRequest(c, "adminToken is required")
		return
	}

	user, err := h.adminService.VerifyAccess(c.Request.Context(), req.AdminToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidToken):
			response.Unauthorized(c, "Invalid admin token")
		case errors.Is(err, token.ErrTokenExpired):
			response.Unauthorized(c, "Admin token has expired")
		case errors.Is(err, service.ErrNotAdmin):
			response.Forbidden(c, "Admin role required")
		case errors.Is(err, service.ErrPrincipalNotFound):
			response.NotFound(c, "User not found")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, dto.AdminVerifyResponse{
		Authorized: true,
		User:       dto.NewUserResponse(user),
	})
}

// Logout ends the admin session. Always returns 200, even when no valid
// session token was presented.
// POST /api/v1/admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	if presented, err := c.Cookie(adminTokenCookie); err == nil && presented != "" {
		_ = h.adminService.Logout(c.Request.Context(), presented)
	}

	clearSessionCookie(c, adminTokenCookie, h.cookieSecure)
	clearSessionCookie(c, userTokenCookie, h.cookieSecure)
	response.Success(c, gin.H{"message": "logged out"})
}

// ListAccessLogs returns recent privileged access log entries
// GET /api/v1/admin/access-logs
func (h *AdminHandler) ListAccessLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.adminService.ListAccessLogs(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, logs)
}
