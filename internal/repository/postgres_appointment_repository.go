package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diabify/platform/internal/domain"
)

// PostgresAppointmentRepository implements AppointmentRepository using PostgreSQL
type PostgresAppointmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAppointmentRepository creates a new PostgresAppointmentRepository
func NewPostgresAppointmentRepository(pool *pgxpool.Pool) *PostgresAppointmentRepository {
	return &PostgresAppointmentRepository{pool: pool}
}

const appointmentColumns = `id, user_id, professional_id, starts_at, status, amount, currency, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	appt := &domain.Appointment{}
	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.ProfessionalID,
		&appt.StartsAt,
		&appt.Status,
		&appt.Amount,
		&appt.Currency,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return appt, nil
}

// Create creates a new appointment
func (r *PostgresAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (id, user_id, professional_id, starts_at, status, amount, currency, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		appt.ID,
		appt.UserID,
		appt.ProfessionalID,
		appt.StartsAt,
		appt.Status,
		appt.Amount,
		appt.Currency,
		appt.Notes,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	return err
}

// GetByID retrieves an appointment by ID
func (r *PostgresAppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return scanAppointment(r.pool.QueryRow(ctx, query, id))
}

// ListByUserID retrieves a user's appointments, newest first
func (r *PostgresAppointmentRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE user_id = $1
		ORDER BY starts_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		appt := &domain.Appointment{}
		if err := rows.Scan(
			&appt.ID,
			&appt.UserID,
			&appt.ProfessionalID,
			&appt.StartsAt,
			&appt.Status,
			&appt.Amount,
			&appt.Currency,
			&appt.Notes,
			&appt.CreatedAt,
			&appt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

// Update updates an appointment
func (r *PostgresAppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET starts_at = $2, status = $3, amount = $4, currency = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		appt.ID,
		appt.StartsAt,
		appt.Status,
		appt.Amount,
		appt.Currency,
		appt.Notes,
		appt.UpdatedAt,
	)
	return err
}
