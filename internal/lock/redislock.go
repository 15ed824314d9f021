package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when the caller still owns it.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`

// Mutex is a Redis-backed distributed lock. It keeps concurrent workers
// from running the same snapshot job at once.
type Mutex struct {
	Client *redis.Client
	Retry  time.Duration
}

// Do runs fn while holding the lock named by key. Acquisition retries until
// the context is cancelled; the lock is released when fn returns.
func (m Mutex) Do(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	if m.Client == nil {
		return errors.New("lock: redis client not configured")
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	retry := m.Retry
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	token := uuid.NewString()

	for {
		acquired, err := m.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if acquired {
			defer func() {
				_ = m.Client.Eval(context.Background(), releaseScript, []string{key}, token).Err()
			}()
			return fn(ctx)
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
