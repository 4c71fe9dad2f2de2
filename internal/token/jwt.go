package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diabify/platform/internal/domain"
)

// UserTokens issues and validates signed user session tokens (HS256).
type UserTokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewUserTokens creates a UserTokens signer/verifier
func NewUserTokens(secret string, ttl time.Duration, issuer string) *UserTokens {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &UserTokens{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// WithClock overrides the time source, for tests
func (t *UserTokens) WithClock(now func() time.Time) *UserTokens {
	t.now = now
	return t
}

// Issue signs a token embedding the principal id, email and role
func (t *UserTokens) Issue(user *domain.User) (*IssuedToken, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := jwt.MapClaims{
		"sub":     user.ID,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iss":     t.issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate verifies signature and expiry claim and returns the embedded
// claims. The role claim is informational only; authorization re-reads the
// stored role from the system of record.
func (t *UserTokens) Validate(tokenString string) (*domain.Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &domain.Claims{
		UserID: userID,
		Email:  email,
		Role:   domain.Role(role),
	}, nil
}
