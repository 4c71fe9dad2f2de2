package domain

import (
	"time"
)

// AccessLog is an append-only record of a successful privileged access.
// Entries are never mutated or deleted.
type AccessLog struct {
	ID          string            `json:"id"`
	PrincipalID string            `json:"principal_id"`
	Action      string            `json:"action"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
