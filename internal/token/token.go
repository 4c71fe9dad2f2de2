package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"time"

	"github.com/diabify/platform/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// adminTokenShape is the lexical shape of an admin session token:
// 32 random bytes, lowercase hex encoded.
var adminTokenShape = regexp.MustCompile(`^[a-f0-9]{64}$`)

// MatchesAdminShape reports whether s has the lexical shape of an admin token.
func MatchesAdminShape(s string) bool {
	return adminTokenShape.MatchString(s)
}

// Store is the persistent allow-list for admin session tokens. A token is
// authoritative only while its session record is present in the store;
// revocation deletes the record.
type Store interface {
	// Save persists the session for the token's remaining lifetime.
	Save(ctx context.Context, session *domain.AdminSession, ttl time.Duration) error
	// Resolve returns the session bound to token, or nil when absent.
	Resolve(ctx context.Context, token string) (*domain.AdminSession, error)
	// Revoke removes the session. Revoking an absent token is not an error.
	Revoke(ctx context.Context, token string) error
}

// IssuedToken is the result of issuing a session token
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminTokens issues and validates opaque admin session tokens against the
// allow-list store. Validation is the single capability used by both the
// route gate and the verify-access endpoint.
type AdminTokens struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewAdminTokens creates an AdminTokens bound to the given store and TTL
func NewAdminTokens(store Store, ttl time.Duration) *AdminTokens {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &AdminTokens{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock overrides the time source, for tests
func (t *AdminTokens) WithClock(now func() time.Time) *AdminTokens {
	t.now = now
	return t
}

// Issue generates a fresh admin token bound to principalID and records it in
// the allow-list with the configured TTL.
func (t *AdminTokens) Issue(ctx context.Context, principalID string) (*IssuedToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	session := &domain.AdminSession{
		Token:       hex.EncodeToString(buf),
		PrincipalID: principalID,
		ExpiresAt:   t.now().Add(t.ttl),
	}
	if err := t.store.Save(ctx, session, t.ttl); err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Validate checks a presented admin token and resolves it to a principal id.
// Fails closed: malformed input is rejected before any store lookup, absent
// sessions return ErrInvalidToken, and a session at or past its expiry
// instant returns ErrTokenExpired.
func (t *AdminTokens) Validate(ctx context.Context, presented string) (string, error) {
	if !MatchesAdminShape(presented) {
		return "", ErrInvalidToken
	}

	session, err := t.store.Resolve(ctx, presented)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrInvalidToken
	}
	if !t.now().Before(session.ExpiresAt) {
		return "", ErrTokenExpired
	}

	return session.PrincipalID, nil
}

// Revoke removes the token from the allow-list. Idempotent.
func (t *AdminTokens) Revoke(ctx context.Context, presented string) error {
	if !MatchesAdminShape(presented) {
		return nil
	}
	return t.store.Revoke(ctx, presented)
}
