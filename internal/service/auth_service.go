package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/internal/token"
	"github.com/diabify/platform/pkg/telemetry"
)

var (
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserInactive             = errors.New("user is inactive")
	ErrUserNotVerified          = errors.New("user email is not verified")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidResetToken        = errors.New("invalid reset token")
	ErrResetTokenExpired        = errors.New("reset token expired")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost    int
	ResetTokenTTL time.Duration
}

// AuthService defines the interface for user authentication operations
type AuthService interface {
	// Register registers a new unverified user and returns it together with
	// the single-use verification token.
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error)
	// VerifyEmail consumes a verification token and marks the user verified.
	VerifyEmail(ctx context.Context, verificationToken string) (*domain.User, error)
	// Login authenticates a user and issues a signed session token.
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *token.IssuedToken, error)
	// ValidateToken validates a user session token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile updates a user's profile.
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
	// ForgotPassword issues a single-use reset token for the account, if it
	// exists. Returns the empty string for unknown emails.
	ForgotPassword(ctx context.Context, email string) (string, error)
	// ResetPassword consumes a reset token and sets the new password.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.UserTokens
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, tokens *token.UserTokens, config *AuthServiceConfig) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.ResetTokenTTL == 0 {
		config.ResetTokenTTL = time.Hour
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		config:   config,
	}
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Register registers a new unverified user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	verificationToken, err := randomHex(32)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                uuid.New().String(),
		Email:             req.Email,
		PasswordHash:      string(hashedPassword),
		Name:              req.Name,
		Role:              domain.RoleUser,
		IsVerified:        false,
		IsActive:          true,
		VerificationToken: &verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, "", err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, verificationToken, nil
}

// VerifyEmail consumes a verification token
func (s *authService) VerifyEmail(ctx context.Context, verificationToken string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.verify_email")
	defer span.End()

	user, err := s.userRepo.GetByVerificationToken(ctx, verificationToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid verification token")
		return nil, ErrInvalidVerificationToken
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	user.IsVerified = true
	user.VerificationToken = nil

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *token.IssuedToken, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		span.SetStatus(codes.Error, "user inactive")
		return nil, nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		span.SetStatus(codes.Error, "user not verified")
		return nil, nil, ErrUserNotVerified
	}

	issued, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, issued, nil
}

// ValidateToken validates a user session token
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", claims.UserID))
	span.SetStatus(codes.Ok, "")
	return claims, nil
}

// GetUser retrieves a user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_user")
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// UpdateProfile updates a user's profile
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.update_profile")
	defer span.End()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// ForgotPassword issues a single-use reset token
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.forgot_password")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if user == nil {
		// Unknown emails are not revealed to the caller
		span.SetStatus(codes.Ok, "unknown email")
		return "", nil
	}

	resetToken, err := randomHex(32)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	expiresAt := time.Now().UTC().Add(s.config.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, resetToken, expiresAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return resetToken, nil
}

// ResetPassword consumes a reset token and sets the new password
func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.reset_password")
	defer span.End()

	user, err := s.userRepo.GetByResetToken(ctx, resetToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil || user.ResetToken == nil {
		span.SetStatus(codes.Error, "invalid reset token")
		return ErrInvalidResetToken
	}
	if user.ResetTokenExpiresAt == nil || !time.Now().UTC().Before(*user.ResetTokenExpiresAt) {
		span.SetStatus(codes.Error, "reset token expired")
		return ErrResetTokenExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// Password update and token invalidation happen in the same statement,
	// so the token cannot be replayed.
	if err := s.userRepo.ResetPassword(ctx, user.ID, string(hashedPassword)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return nil
}
