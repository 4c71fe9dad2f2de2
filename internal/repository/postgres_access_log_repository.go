package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diabify/platform/internal/domain"
)

// PostgresAccessLogRepository implements AccessLogRepository using PostgreSQL.
// The table is append-only; there are no update or delete operations.
type PostgresAccessLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccessLogRepository creates a new PostgresAccessLogRepository
func NewPostgresAccessLogRepository(pool *pgxpool.Pool) *PostgresAccessLogRepository {
	return &PostgresAccessLogRepository{pool: pool}
}

// Create appends an access log entry
func (r *PostgresAccessLogRepository) Create(ctx context.Context, entry *domain.AccessLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO access_logs (id, principal_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.PrincipalID,
		entry.Action,
		metadata,
		entry.CreatedAt,
	)
	return err
}

// List returns recent entries, newest first
func (r *PostgresAccessLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.AccessLog, error) {
	query := `
		SELECT id, principal_id, action, metadata, created_at
		FROM access_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AccessLog
	for rows.Next() {
		entry := &domain.AccessLog{}
		var metadata []byte
		if err := rows.Scan(&entry.ID, &entry.PrincipalID, &entry.Action, &metadata, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
