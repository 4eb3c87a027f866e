package ratelimit

import "time"

type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
	BurstSize         int
}

type RateLimiter interface {
	Allow(key string, config Config) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
