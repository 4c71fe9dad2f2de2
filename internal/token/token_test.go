package token

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/diabify/platform/internal/domain"
)

// mockStore is an in-memory Store that counts lookups
type mockStore struct {
	sessions map[string]*domain.AdminSession
	resolves int
}

func newMockStore() *mockStore {
	return &mockStore{sessions: make(map[string]*domain.AdminSession)}
}

func (s *mockStore) Save(ctx context.Context, session *domain.AdminSession, ttl time.Duration) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *mockStore) Resolve(ctx context.Context, token string) (*domain.AdminSession, error) {
	s.resolves++
	return s.sessions[token], nil
}

func (s *mockStore) Revoke(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func TestAdminTokens_IssueValidate(t *testing.T) {
	store := newMockStore()
	tokens := NewAdminTokens(store, 24*time.Hour)
	ctx := context.Background()

	issued, err := tokens.Issue(ctx, "principal-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	shape := regexp.MustCompile(`^[a-f0-9]{64}$`)
	if !shape.MatchString(issued.Token) {
		t.Errorf("Issue() token = %q, want 64 lowercase hex chars", issued.Token)
	}

	until := time.Until(issued.ExpiresAt)
	if until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("Issue() ExpiresAt = %v, want ~24h from now", issued.ExpiresAt)
	}

	principalID, err := tokens.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if principalID != "principal-1" {
		t.Errorf("Validate() principal = %q, want principal-1", principalID)
	}
}

func TestAdminTokens_IssueUnique(t *testing.T) {
	store := newMockStore()
	tokens := NewAdminTokens(store, time.Hour)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		issued, err := tokens.Issue(ctx, "principal-1")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if seen[issued.Token] {
			t.Fatalf("Issue() produced duplicate token %q", issued.Token)
		}
		seen[issued.Token] = true
	}
}

func TestAdminTokens_ValidateMalformed(t *testing.T) {
	store := newMockStore()
	tokens := NewAdminTokens(store, time.Hour)
	ctx := context.Background()

	malformed := []string{
		"",
		"short",
		"ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789", // uppercase
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", // not hex
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcde",  // 63 chars
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0", // 65 chars
	}

	for _, presented := range malformed {
		if _, err := tokens.Validate(ctx, presented); err != ErrInvalidToken {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", presented, err)
		}
	}

	// Malformed tokens must be rejected before any store lookup
	if store.resolves != 0 {
		t.Errorf("store lookups = %d, want 0 for malformed tokens", store.resolves)
	}
}

func TestAdminTokens_ValidateUnknown(t *testing.T) {
	store := newMockStore()
	tokens := NewAdminTokens(store, time.Hour)
	ctx := context.Background()

	// Well-formed but never issued
	unknown := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	if _, err := tokens.Validate(ctx, unknown); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
	if store.resolves != 1 {
		t.Errorf("store lookups = %d, want 1", store.resolves)
	}
}

func TestAdminTokens_ValidateExpiry(t *testing.T) {
	store := newMockStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewAdminTokens(store, time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	issued, err := tokens.Issue(ctx, "principal-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// One second before expiry: still valid
	now = issued.ExpiresAt.Add(-time.Second)
	if _, err := tokens.Validate(ctx, issued.Token); err != nil {
		t.Errorf("Validate() just before expiry error = %v", err)
	}

	// Exactly at expiry: no longer valid
	now = issued.ExpiresAt
	if _, err := tokens.Validate(ctx, issued.Token); err != ErrTokenExpired {
		t.Errorf("Validate() at expiry error = %v, want ErrTokenExpired", err)
	}

	// After expiry
	now = issued.ExpiresAt.Add(time.Minute)
	if _, err := tokens.Validate(ctx, issued.Token); err != ErrTokenExpired {
		t.Errorf("Validate() after expiry error = %v, want ErrTokenExpired", err)
	}
}

func TestAdminTokens_Revoke(t *testing.T) {
	store := newMockStore()
	tokens := NewAdminTokens(store, time.Hour)
	ctx := context.Background()

	issued, err := tokens.Issue(ctx, "principal-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := tokens.Revoke(ctx, issued.Token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := tokens.Validate(ctx, issued.Token); err != ErrInvalidToken {
		t.Errorf("Validate() after revoke error = %v, want ErrInvalidToken", err)
	}

	// Revoking again is a no-op
	if err := tokens.Revoke(ctx, issued.Token); err != nil {
		t.Errorf("Revoke() second call error = %v", err)
	}

	// Revoking a malformed token is also a no-op
	if err := tokens.Revoke(ctx, "not-a-token"); err != nil {
		t.Errorf("Revoke() malformed token error = %v", err)
	}
}

func TestMatchesAdminShape(t *testing.T) {
	valid := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	if !MatchesAdminShape(valid) {
		t.Errorf("MatchesAdminShape(%q) = false, want true", valid)
	}
	if MatchesAdminShape("") {
		t.Error("MatchesAdminShape(\"\") = true, want false")
	}
}
