package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result reports the outcome of a single admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// SlidingWindow is a Redis sorted-set sliding window limiter. Each
// admitted request becomes a member scored by its arrival time; the
// window slides by pruning members older than the window on every check.
type SlidingWindow struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
}

// Check records an arrival for key and reports whether it fits the window.
// A nil client or non-positive limit disables limiting entirely.
func (s SlidingWindow) Check(ctx context.Context, key string) (Result, error) {
	open := Result{Allowed: true, Remaining: s.Max, ResetAt: time.Now().Add(s.Window)}
	if s.Client == nil || s.Max <= 0 || s.Window <= 0 {
		return open, nil
	}

	now := time.Now()
	resetAt := now.Add(s.Window)
	cutoff := float64(now.Add(-s.Window).UnixNano())
	redisKey := s.Prefix + key

	pipe := s.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{ResetAt: resetAt}, err
	}

	seen := int(countCmd.Val())
	remaining := s.Max - seen
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: seen <= s.Max, Remaining: remaining, ResetAt: resetAt}, nil
}
