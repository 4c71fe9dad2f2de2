package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/internal/token"
	"github.com/diabify/platform/pkg/response"
)

// AdminAuth protects admin API routes. It runs the same validation as the
// verify-access endpoint: token validity, then the stored role re-read.
func AdminAuth(adminService service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := sessionCredential(c, "adminToken")
		if credential == "" {
			response.Unauthorized(c, "Admin session required")
			c.Abort()
			return
		}

		admin, err := adminService.VerifyAccess(c.Request.Context(), credential)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrTokenExpired):
				response.Unauthorized(c, "Invalid or expired admin session")
			case errors.Is(err, service.ErrNotAdmin):
				response.Forbidden(c, "Admin role required")
			case errors.Is(err, service.ErrPrincipalNotFound):
				response.NotFound(c, "User not found")
			default:
				response.InternalError(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user_id", admin.ID)
		c.Set("email", admin.Email)
		c.Set("role", string(admin.Role))
		c.Next()
	}
}
