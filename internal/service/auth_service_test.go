package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/token"
)

func newAuthFixture() (AuthService, *mockUserRepository) {
	userRepo := newMockUserRepository()
	tokens := token.NewUserTokens("test-secret", time.Hour, "test-issuer")
	svc := NewAuthService(userRepo, tokens, &AuthServiceConfig{
		BcryptCost: bcrypt.MinCost, // fast hashing in tests
	})
	return svc, userRepo
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		req := &dto.RegisterRequest{
			Email:    "new@example.com",
			Password: "password1",
			Name:     "New User",
		}

		user, verificationToken, err := svc.Register(ctx, req)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Role != domain.RoleUser {
			t.Errorf("Register() Role = %q, want USER", user.Role)
		}
		if user.IsVerified {
			t.Error("Register() IsVerified = true, want false")
		}
		if !user.IsActive {
			t.Error("Register() IsActive = false, want true")
		}
		if verificationToken == "" {
			t.Error("Register() verification token is empty")
		}
		if user.PasswordHash == "password1" {
			t.Error("Register() stored the plaintext password")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := &dto.RegisterRequest{
			Email:    "new@example.com",
			Password: "password2",
			Name:     "Someone Else",
		}
		if _, _, err := svc.Register(ctx, req); !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("Register() error = %v, want ErrUserAlreadyExists", err)
		}
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, verificationToken, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "verify@example.com",
		Password: "password1",
		Name:     "Verify Me",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.VerifyEmail(ctx, verificationToken)
	if err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !user.IsVerified {
		t.Error("VerifyEmail() IsVerified = false, want true")
	}

	// The token is single-use
	if _, err := svc.VerifyEmail(ctx, verificationToken); !errors.Is(err, ErrInvalidVerificationToken) {
		t.Errorf("VerifyEmail() second use error = %v, want ErrInvalidVerificationToken", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	_, verificationToken, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "password1",
		Name:     "Login Test",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("unverified user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password1"})
		if !errors.Is(err, ErrUserNotVerified) {
			t.Errorf("Login() error = %v, want ErrUserNotVerified", err)
		}
	})

	if _, err := svc.VerifyEmail(ctx, verificationToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	t.Run("successful login", func(t *testing.T) {
		user, issued, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password1"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if issued.Token == "" {
			t.Error("Login() token is empty")
		}

		claims, err := svc.ValidateToken(ctx, issued.Token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("ValidateToken() UserID = %q, want %q", claims.UserID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "nope-nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "password1"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		user, _ := userRepo.GetByEmail(ctx, "login@example.com")
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "password1"})
		if !errors.Is(err, ErrUserInactive) {
			t.Errorf("Login() error = %v, want ErrUserInactive", err)
		}
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	_, verificationToken, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "reset@example.com",
		Password: "password1",
		Name:     "Reset Test",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, verificationToken); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	t.Run("unknown email reveals nothing", func(t *testing.T) {
		resetToken, err := svc.ForgotPassword(ctx, "ghost@example.com")
		if err != nil {
			t.Fatalf("ForgotPassword() error = %v", err)
		}
		if resetToken != "" {
			t.Error("ForgotPassword() returned a token for an unknown email")
		}
	})

	t.Run("reset flow", func(t *testing.T) {
		resetToken, err := svc.ForgotPassword(ctx, "reset@example.com")
		if err != nil {
			t.Fatalf("ForgotPassword() error = %v", err)
		}
		if resetToken == "" {
			t.Fatal("ForgotPassword() returned an empty token")
		}

		if err := svc.ResetPassword(ctx, resetToken, "newpassword2"); err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}

		// New password works, old one does not
		if _, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "newpassword2"}); err != nil {
			t.Errorf("Login() with new password error = %v", err)
		}
		if _, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
		}

		// The reset token is single-use
		if err := svc.ResetPassword(ctx, resetToken, "anotherpass3"); !errors.Is(err, ErrInvalidResetToken) {
			t.Errorf("ResetPassword() second use error = %v, want ErrInvalidResetToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		resetToken, err := svc.ForgotPassword(ctx, "reset@example.com")
		if err != nil {
			t.Fatalf("ForgotPassword() error = %v", err)
		}

		user, _ := userRepo.GetByEmail(ctx, "reset@example.com")
		past := time.Now().UTC().Add(-time.Minute)
		user.ResetTokenExpiresAt = &past

		if err := svc.ResetPassword(ctx, resetToken, "lastpass4"); !errors.Is(err, ErrResetTokenExpired) {
			t.Errorf("ResetPassword() error = %v, want ErrResetTokenExpired", err)
		}
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "profile@example.com",
		Password: "password1",
		Name:     "Before",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, registered.ID, &dto.UpdateProfileRequest{Name: "After"})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "After" {
		t.Errorf("UpdateProfile() Name = %q, want After", updated.Name)
	}

	if _, err := svc.UpdateProfile(ctx, "missing", &dto.UpdateProfileRequest{Name: "X"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdateProfile() unknown user error = %v, want ErrUserNotFound", err)
	}
}
