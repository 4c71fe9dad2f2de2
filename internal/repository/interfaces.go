package repository

import (
	"context"
	"time"

	"github.com/diabify/platform/internal/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// MarkVerified flips is_verified and clears the verification token in one statement.
	MarkVerified(ctx context.Context, id string) error
	// SetResetToken stores a recovery credential on the user record.
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	// ResetPassword sets the new password hash and clears the reset token in
	// the same statement, so the token cannot be replayed.
	ResetPassword(ctx context.Context, id, passwordHash string) error
}

// AccessLogRepository defines the interface for the append-only access log
type AccessLogRepository interface {
	Create(ctx context.Context, entry *domain.AccessLog) error
	List(ctx context.Context, limit, offset int) ([]*domain.AccessLog, error)
}

// ProfessionalRepository defines the interface for professional persistence
type ProfessionalRepository interface {
	Create(ctx context.Context, pro *domain.Professional) error
	GetByID(ctx context.Context, id string) (*domain.Professional, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Professional, error)
	Update(ctx context.Context, pro *domain.Professional) error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*domain.Payment, error)
}

// NewsletterRepository defines the interface for newsletter subscriptions
type NewsletterRepository interface {
	Create(ctx context.Context, sub *domain.Subscriber) error
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Update(ctx context.Context, sub *domain.Subscriber) error
	List(ctx context.Context, limit, offset int) ([]*domain.Subscriber, error)
	Count(ctx context.Context) (total int64, active int64, err error)
}
