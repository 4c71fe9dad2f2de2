package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/pkg/logger"
)

// AccessLogger appends audit entries for successful privileged accesses.
// Writes are best-effort: a failed append is logged and never fails the
// access it is recording.
type AccessLogger struct {
	repo repository.AccessLogRepository
}

// NewAccessLogger creates a new AccessLogger
func NewAccessLogger(repo repository.AccessLogRepository) *AccessLogger {
	return &AccessLogger{repo: repo}
}

// Record appends an entry. Fire-and-forget: errors are logged, not returned.
func (l *AccessLogger) Record(ctx context.Context, principalID, action string, metadata map[string]string) {
	entry := &domain.AccessLog{
		ID:          uuid.New().String(),
		PrincipalID: principalID,
		Action:      action,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}

	if err := l.repo.Create(ctx, entry); err != nil {
		logger.Get().Warn("failed to write access log entry",
			zap.String("principal_id", principalID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
