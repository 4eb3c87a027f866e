package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tessera/internal/shared/errors"
)

// RedisRateLimiter is a sliding-window limiter on Redis sorted sets. Each
// (key, window) pair gets one set whose members are request timestamps;
// entries older than the window are trimmed on every check.
type RedisRateLimiter struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &RedisRateLimiter{
		client: client,
		ctx:    context.Background(),
	}
}

// Allow records the request and reports whether every configured window
// still has budget. A zero limit disables that window.
func (l *RedisRateLimiter) Allow(key string, config Config) (bool, error) {
	now := time.Now()

	if config.RequestsPerMinute > 0 {
		ok, err := l.checkWindow(key, time.Minute, config.RequestsPerMinute, now)
		if err != nil || !ok {
			return false, err
		}
	}
	if config.RequestsPerHour > 0 {
		ok, err := l.checkWindow(key, time.Hour, config.RequestsPerHour, now)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func (l *RedisRateLimiter) checkWindow(key string, window time.Duration, limit int, now time.Time) (bool, error) {
	setKey := l.setKey(key, window)
	cutoff := now.Add(-window).UnixNano()
	stamp := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(l.ctx, setKey, "0", strconv.FormatInt(cutoff, 10))
	count := pipe.ZCard(l.ctx, setKey)
	pipe.ZAdd(l.ctx, setKey, redis.Z{Score: float64(stamp), Member: stamp})
	pipe.Expire(l.ctx, setKey, window+time.Minute)

	if _, err := pipe.Exec(l.ctx); err != nil {
		return false, errors.NewInternalError("rate limit check failed", err.Error())
	}

	return count.Val() < int64(limit), nil
}

// GetRemaining returns the number of requests recorded in the window
// after trimming expired entries.
func (l *RedisRateLimiter) GetRemaining(key string, window time.Duration) (int64, error) {
	setKey := l.setKey(key, window)
	cutoff := time.Now().Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(l.ctx, setKey, "0", strconv.FormatInt(cutoff, 10))
	count := pipe.ZCard(l.ctx, setKey)

	if _, err := pipe.Exec(l.ctx); err != nil {
		return 0, errors.NewInternalError("rate limit lookup failed", err.Error())
	}

	return count.Val(), nil
}

// Reset drops every window set for the key.
func (l *RedisRateLimiter) Reset(key string) error {
	iter := l.client.Scan(l.ctx, 0, "ratelimit:"+key+":*", 0).Iterator()
	for iter.Next(l.ctx) {
		if err := l.client.Del(l.ctx, iter.Val()).Err(); err != nil {
			return errors.NewInternalError("rate limit reset failed", err.Error())
		}
	}
	if err := iter.Err(); err != nil {
		return errors.NewInternalError("rate limit reset failed", err.Error())
	}
	return nil
}

func (l *RedisRateLimiter) setKey(key string, window time.Duration) string {
	return "ratelimit:" + key + ":" + window.String()
}
