package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"whoami/internal/ratelimit/models"
)

// slidingWindow trims the sorted set to the window, then adds the request
// when there is room. It returns {allowed, count, oldest score in ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  count = count + 1
  allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
  first = tonumber(oldest[2])
end
return {allowed, count, first}
`)

// RedisStore keeps one sorted set of request timestamps per key so every
// replica shares the same window.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	now := s.now()
	raw, err := slidingWindow.Run(ctx, s.client, []string{key},
		now.UnixMilli(),
		limit.Window.Milliseconds(),
		limit.Requests,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply of %d values", len(raw))
	}

	count := int(raw[1])
	resetAt := time.UnixMilli(raw[2]).Add(limit.Window)
	result := &models.Result{
		Allowed: raw[0] == 1,
		Limit:   limit.Requests,
		ResetAt: resetAt,
	}
	if result.Allowed {
		result.Remaining = max(limit.Requests-count, 0)
	} else {
		result.RetryAfter = models.RetryAfterSeconds(now, resetAt)
	}
	return result, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}
