package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diabify/platform/internal/domain"
)

// PostgresProfessionalRepository implements ProfessionalRepository using PostgreSQL
type PostgresProfessionalRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfessionalRepository creates a new PostgresProfessionalRepository
func NewPostgresProfessionalRepository(pool *pgxpool.Pool) *PostgresProfessionalRepository {
	return &PostgresProfessionalRepository{pool: pool}
}

// Create creates a new professional
func (r *PostgresProfessionalRepository) Create(ctx context.Context, pro *domain.Professional) error {
	query := `
		INSERT INTO professionals (id, name, specialty, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		pro.ID,
		pro.Name,
		pro.Specialty,
		pro.IsActive,
		pro.CreatedAt,
		pro.UpdatedAt,
	)
	return err
}

// GetByID retrieves a professional by ID
func (r *PostgresProfessionalRepository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	query := `
		SELECT id, name, specialty, is_active, created_at, updated_at
		FROM professionals
		WHERE id = $1
	`
	pro := &domain.Professional{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pro.ID,
		&pro.Name,
		&pro.Specialty,
		&pro.IsActive,
		&pro.CreatedAt,
		&pro.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pro, nil
}

// List retrieves professionals, optionally filtered to active ones
func (r *PostgresProfessionalRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Professional, error) {
	query := `
		SELECT id, name, specialty, is_active, created_at, updated_at
		FROM professionals
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pros []*domain.Professional
	for rows.Next() {
		pro := &domain.Professional{}
		if err := rows.Scan(&pro.ID, &pro.Name, &pro.Specialty, &pro.IsActive, &pro.CreatedAt, &pro.UpdatedAt); err != nil {
			return nil, err
		}
		pros = append(pros, pro)
	}
	return pros, rows.Err()
}

// Update updates a professional
func (r *PostgresProfessionalRepository) Update(ctx context.Context, pro *domain.Professional) error {
	query := `
		UPDATE professionals
		SET name = $2, specialty = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`
	pro.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, query,
		pro.ID,
		pro.Name,
		pro.Specialty,
		pro.IsActive,
		pro.UpdatedAt,
	)
	return err
}
