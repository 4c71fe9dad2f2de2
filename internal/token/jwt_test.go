package token

import (
	"testing"
	"time"

	"github.com/diabify/platform/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	}
}

func TestUserTokens_IssueValidate(t *testing.T) {
	tokens := NewUserTokens("test-secret", time.Hour, "test-issuer")

	issued, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if issued.Token == "" {
		t.Fatal("Issue() token is empty")
	}

	claims, err := tokens.Validate(issued.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("Validate() UserID = %q, want user-1", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Validate() Email = %q", claims.Email)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("Validate() Role = %q, want USER", claims.Role)
	}
}

func TestUserTokens_ValidateWrongSecret(t *testing.T) {
	issuer := NewUserTokens("secret-a", time.Hour, "test-issuer")
	verifier := NewUserTokens("secret-b", time.Hour, "test-issuer")

	issued, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Validate(issued.Token); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestUserTokens_ValidateExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewUserTokens("test-secret", time.Hour, "test-issuer").
		WithClock(func() time.Time { return now })

	issued, err := tokens.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := tokens.Validate(issued.Token); err != ErrTokenExpired {
		t.Errorf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestUserTokens_ValidateGarbage(t *testing.T) {
	tokens := NewUserTokens("test-secret", time.Hour, "test-issuer")

	for _, presented := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := tokens.Validate(presented); err != ErrInvalidToken {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", presented, err)
		}
	}
}
