package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"sufragio/pkg/platform/sentinel"
)

const refreshKeyPrefix = "refresh:"

// RedisRefreshStore keeps refresh tokens in Redis with their TTL. GETDEL
// makes consumption atomic, so a replayed token loses the race cleanly.
type RedisRefreshStore struct {
	client *redis.Client
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func (s *RedisRefreshStore) Save(ctx context.Context, token string, voterID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, voterID, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume refresh token: %w", err)
	}
	voterID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("consume refresh token: corrupt value %q", val)
	}
	return voterID, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
