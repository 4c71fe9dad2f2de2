package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diabify/platform/internal/domain"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

// Create records a settled payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, provider_payment_id, appointment_id, amount, currency, status, failure_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.ProviderPaymentID,
		payment.AppointmentID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.FailureReason,
		payment.CreatedAt,
	)
	return err
}

// GetByProviderPaymentID retrieves a payment by its provider id
func (r *PostgresPaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	query := `
		SELECT id, provider_payment_id, appointment_id, amount, currency, status, failure_reason, created_at
		FROM payments
		WHERE provider_payment_id = $1
	`
	payment := &domain.Payment{}
	err := r.pool.QueryRow(ctx, query, providerPaymentID).Scan(
		&payment.ID,
		&payment.ProviderPaymentID,
		&payment.AppointmentID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.FailureReason,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}
