package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/diabify/platform/internal/domain"
	"github.com/diabify/platform/pkg/redis"
)

const adminTokenKeyPrefix = "admintoken:"

// RedisStore keeps the admin-token allow-list in Redis. The key TTL matches
// the session expiry, so expired sessions vanish without a sweeper.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed allow-list store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(token string) string {
	return adminTokenKeyPrefix + token
}

// Save persists the session record with the given TTL
func (s *RedisStore) Save(ctx context.Context, session *domain.AdminSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal admin session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store admin session: %w", err)
	}
	return nil
}

// Resolve looks up the session bound to token; returns nil when absent
func (s *RedisStore) Resolve(ctx context.Context, token string) (*domain.AdminSession, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve admin session: %w", err)
	}

	session := &domain.AdminSession{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin session: %w", err)
	}
	return session, nil
}

// Revoke deletes the session record
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke admin session: %w", err)
	}
	return nil
}
