package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/response"
)

const bearerPrefix = "Bearer "

// sessionCredential extracts a session token from the named cookie or the
// Authorization header. The cookie wins when both are present.
func sessionCredential(c *gin.Context, cookieName string) string {
	if value, err := c.Cookie(cookieName); err == nil && value != "" {
		return value
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return authHeader[len(bearerPrefix):]
	}
	return ""
}

// UserAuth validates the user session token and sets the user claims in the
// request context.
func UserAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := sessionCredential(c, "userToken")
		if credential == "" {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), credential)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}
