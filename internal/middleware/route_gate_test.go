package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/internal/token"
)

// gateAdminService is a minimal service.AdminService for gate tests
type gateAdminService struct {
	valid map[string]*domain.User
}

func (s *gateAdminService) Login(ctx context.Context, password, clientIP string) (*token.IssuedToken, error) {
	return nil, service.ErrInvalidSecret
}

func (s *gateAdminService) VerifyAccess(ctx context.Context, presented string) (*domain.User, error) {
	if user, ok := s.valid[presented]; ok {
		return user, nil
	}
	return nil, token.ErrInvalidToken
}

func (s *gateAdminService) Logout(ctx context.Context, presented string) error { return nil }

func (s *gateAdminService) Authorize(ctx context.Context, principalID string, required domain.Role) (bool, error) {
	return false, nil
}

func (s *gateAdminService) ValidateToken(ctx context.Context, presented string) (string, error) {
	if user, ok := s.valid[presented]; ok {
		return user.ID, nil
	}
	return "", token.ErrInvalidToken
}

func (s *gateAdminService) ListAccessLogs(ctx context.Context, limit, offset int) ([]*domain.AccessLog, error) {
	return nil, nil
}

const gateTestToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func setupGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := &gateAdminService{valid: map[string]*domain.User{
		gateTestToken: {ID: "admin-1", Role: domain.RoleAdmin},
	}}

	router := gin.New()
	router.Use(RouteGate(svc))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/newsletter", ok)
	router.GET("/patients/:id", ok)
	router.GET("/login", ok)
	router.GET("/favicon.ico", ok)
	router.GET("/api/v1/professionals", ok)
	return router
}

func get(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouteGate_RedirectsWithoutSession(t *testing.T) {
	router := setupGateRouter()

	w := get(router, "/newsletter")
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?redirect=%2Fnewsletter" {
		t.Errorf("Location = %q, want /login?redirect=%%2Fnewsletter", loc)
	}
}

func TestRouteGate_PreservesOriginalPath(t *testing.T) {
	router := setupGateRouter()

	w := get(router, "/patients/42")
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?redirect=%2Fpatients%2F42" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRouteGate_SkipsExemptPaths(t *testing.T) {
	router := setupGateRouter()

	for _, path := range []string{"/login", "/favicon.ico", "/api/v1/professionals"} {
		w := get(router, path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}

func TestRouteGate_PassesWithValidSession(t *testing.T) {
	router := setupGateRouter()

	t.Run("cookie credential", func(t *testing.T) {
		w := get(router, "/newsletter", &http.Cookie{Name: "adminToken", Value: gateTestToken})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("bearer credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/newsletter", nil)
		req.Header.Set("Authorization", "Bearer "+gateTestToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestRouteGate_RedirectsInvalidSession(t *testing.T) {
	router := setupGateRouter()

	stale := "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	w := get(router, "/newsletter", &http.Cookie{Name: "adminToken", Value: stale})
	if w.Code != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want 307 for stale session", w.Code)
	}
}
