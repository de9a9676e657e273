package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed login-state store. Redis TTLs expire
// stale entries and GETDEL makes consumption single-use across instances.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "login_state:",
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) Create(ctx context.Context, s LoginState) error {
	if s.Token == "" || s.UserID == "" {
		return fmt.Errorf("state: missing token or user_id")
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("state: expires_at must be in the future")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("state: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(s.Token), data, ttl).Err()
}

func (r *RedisStore) Consume(ctx context.Context, token string) (*LoginState, error) {
	val, err := r.client.GetDel(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return nil, nil // unknown, expired, or already consumed
	}
	if err != nil {
		return nil, err
	}

	var s LoginState
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("state: failed to unmarshal: %w", err)
	}

	return &s, nil
}
