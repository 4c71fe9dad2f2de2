package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/service"
)

// Paths excluded from route gating: the API surface, static assets, and the
// login page itself.
var gateSkipPrefixes = []string{
	"/api",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
	"/login",
	"/health",
	"/ready",
}

func gateSkips(path string) bool {
	for _, prefix := range gateSkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RouteGate redirects unauthenticated browser requests for gated pages to
// the login page, preserving the original path for post-login redirect. It
// validates the credential with the same check as the verify-access
// endpoint, so a token that fails there never passes the gate.
func RouteGate(adminService service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if gateSkips(path) {
			c.Next()
			return
		}

		redirect := func() {
			target := "/login?redirect=" + url.QueryEscape(path)
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
		}

		credential := sessionCredential(c, "adminToken")
		if credential == "" {
			redirect()
			return
		}

		if _, err := adminService.VerifyAccess(c.Request.Context(), credential); err != nil {
			redirect()
			return
		}

		c.Next()
	}
}
