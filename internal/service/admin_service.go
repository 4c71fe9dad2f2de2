package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/internal/token"
	"github.com/diabify/platform/pkg/telemetry"
)

var (
	ErrInvalidSecret     = errors.New("invalid admin secret")
	ErrNotAdmin          = errors.New("principal does not have the admin role")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrTooManyAttempts   = errors.New("too many login attempts")
)

// RateLimiter gates repeated attempts per client key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AdminServiceConfig holds configuration for AdminService
type AdminServiceConfig struct {
	// Secret is the shared admin credential, provisioned at process start.
	Secret string
	// AdminEmail identifies the principal that admin sessions are bound to.
	AdminEmail string
}

// AdminService implements the admin session protocol: issuing the opaque
// session token, validating it against the allow-list, re-checking the
// stored role, and recording successful privileged accesses.
type AdminService interface {
	// Login checks the shared secret and issues an admin session token
	// bound to the configured admin principal.
	Login(ctx context.Context, password, clientIP string) (*token.IssuedToken, error)
	// VerifyAccess validates the token, resolves and re-checks the principal's
	// stored role, and records the access. Returns the principal on success.
	VerifyAccess(ctx context.Context, presented string) (*domain.User, error)
	// Logout revokes the token. Idempotent.
	Logout(ctx context.Context, presented string) error
	// Authorize re-reads the principal's current role from the system of
	// record and reports whether it matches the required role.
	Authorize(ctx context.Context, principalID string, required domain.Role) (bool, error)
	// ValidateToken exposes the token validator for route gating.
	ValidateToken(ctx context.Context, presented string) (string, error)
	// ListAccessLogs returns recent access log entries for the dashboard.
	ListAccessLogs(ctx context.Context, limit, offset int) ([]*domain.AccessLog, error)
}

type adminService struct {
	userRepo      repository.UserRepository
	accessLogRepo repository.AccessLogRepository
	tokens        *token.AdminTokens
	accessLog     *AccessLogger
	limiter       RateLimiter
	config        *AdminServiceConfig
}

// NewAdminService creates a new AdminService. limiter may be nil to disable
// login rate limiting.
func NewAdminService(
	userRepo repository.UserRepository,
	accessLogRepo repository.AccessLogRepository,
	tokens *token.AdminTokens,
	accessLog *AccessLogger,
	limiter RateLimiter,
	config *AdminServiceConfig,
) AdminService {
	return &adminService{
		userRepo:      userRepo,
		accessLogRepo: accessLogRepo,
		tokens:        tokens,
		accessLog:     accessLog,
		limiter:       limiter,
		config:        config,
	}
}

// secretsEqual compares the presented secret against the configured one in
// constant time. Both sides are hashed first so the comparison length does
// not depend on either input.
func secretsEqual(presented, configured string) bool {
	if configured == "" {
		return false
	}
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(configured))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Login checks the shared secret and issues an admin session token
func (s *adminService) Login(ctx context.Context, password, clientIP string) (*token.IssuedToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.login")
	defer span.End()

	if s.limiter != nil && clientIP != "" {
		allowed, err := s.limiter.Allow(ctx, "admin-login:"+clientIP)
		if err == nil && !allowed {
			span.SetStatus(codes.Error, "rate limited")
			return nil, ErrTooManyAttempts
		}
	}

	if !secretsEqual(password, s.config.Secret) {
		span.SetStatus(codes.Error, "invalid secret")
		return nil, ErrInvalidSecret
	}

	admin, err := s.userRepo.GetByEmail(ctx, s.config.AdminEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if admin == nil {
		span.SetStatus(codes.Error, "admin principal not found")
		return nil, ErrPrincipalNotFound
	}

	issued, err := s.tokens.Issue(ctx, admin.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("principal_id", admin.ID))
	span.SetStatus(codes.Ok, "")
	return issued, nil
}

// VerifyAccess validates the token and re-checks the stored role
func (s *adminService) VerifyAccess(ctx context.Context, presented string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.verify_access")
	defer span.End()

	principalID, err := s.tokens.Validate(ctx, presented)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, err
	}

	// Single lookup resolves the principal and its current role together;
	// the role stored on the record is authoritative, never the token.
	principal, err := s.userRepo.GetByID(ctx, principalID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if principal == nil {
		span.SetStatus(codes.Error, "principal not found")
		return nil, ErrPrincipalNotFound
	}
	if principal.Role != domain.RoleAdmin {
		span.SetStatus(codes.Error, "not admin")
		return nil, ErrNotAdmin
	}

	s.accessLog.Record(ctx, principal.ID, "admin.verify_access", map[string]string{
		"email": principal.Email,
	})

	span.SetAttributes(attribute.String("principal_id", principal.ID))
	span.SetStatus(codes.Ok, "")
	return principal, nil
}

// Logout revokes the token
func (s *adminService) Logout(ctx context.Context, presented string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.logout")
	defer span.End()

	if presented == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, presented); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Authorize re-reads the principal's current role from the system of record
func (s *adminService) Authorize(ctx context.Context, principalID string, required domain.Role) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.authorize")
	defer span.End()

	principal, err := s.userRepo.GetByID(ctx, principalID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if principal == nil {
		span.SetStatus(codes.Ok, "principal gone")
		return false, nil
	}

	span.SetStatus(codes.Ok, "")
	return principal.Role == required, nil
}

// ValidateToken exposes the token validator for route gating
func (s *adminService) ValidateToken(ctx context.Context, presented string) (string, error) {
	return s.tokens.Validate(ctx, presented)
}

// ListAccessLogs returns recent access log entries
func (s *adminService) ListAccessLogs(ctx context.Context, limit, offset int) ([]*domain.AccessLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.accessLogRepo.List(ctx, limit, offset)
}
