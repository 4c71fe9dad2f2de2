package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diabify/platform/internal/domain"
)

// PostgresNewsletterRepository implements NewsletterRepository using PostgreSQL
type PostgresNewsletterRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresNewsletterRepository creates a new PostgresNewsletterRepository
func NewPostgresNewsletterRepository(pool *pgxpool.Pool) *PostgresNewsletterRepository {
	return &PostgresNewsletterRepository{pool: pool}
}

// Create creates a new subscriber
func (r *PostgresNewsletterRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (id, email, subscribed_at, unsubscribed_at)
		VALUES ($1, lower($2), $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		sub.SubscribedAt,
		sub.UnsubscribedAt,
	)
	return err
}

// GetByEmail retrieves a subscriber by email
func (r *PostgresNewsletterRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `
		SELECT id, email, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		WHERE email = lower($1)
	`
	sub := &domain.Subscriber{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&sub.ID,
		&sub.Email,
		&sub.SubscribedAt,
		&sub.UnsubscribedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// Update updates a subscriber record
func (r *PostgresNewsletterRepository) Update(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		UPDATE newsletter_subscribers
		SET subscribed_at = $2, unsubscribed_at = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, sub.ID, sub.SubscribedAt, sub.UnsubscribedAt)
	return err
}

// List retrieves subscribers, newest first
func (r *PostgresNewsletterRepository) List(ctx context.Context, limit, offset int) ([]*domain.Subscriber, error) {
	query := `
		SELECT id, email, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		ORDER BY subscribed_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscriber
	for rows.Next() {
		sub := &domain.Subscriber{}
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.SubscribedAt, &sub.UnsubscribedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns total and currently-subscribed counts
func (r *PostgresNewsletterRepository) Count(ctx context.Context) (int64, int64, error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE unsubscribed_at IS NULL)
		FROM newsletter_subscribers
	`
	var total, active int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &active); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
