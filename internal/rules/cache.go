package rules

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchkit/pricing-api/internal/pricing"
)

const (
	rulesSnapshotKey = "rules:active:v1"
	configBlobKey    = "rules:config:v1"
)

// Cache stores the active-rule snapshot and the serialized sandbox config
// blob in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetRules returns the cached rule snapshot. It reports whether the key existed.
func (c *Cache) GetRules(ctx context.Context) ([]pricing.Rule, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, rulesSnapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out []pricing.Rule
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// SetRules serialises the rule snapshot and stores it with the configured TTL.
func (c *Cache) SetRules(ctx context.Context, rules []pricing.Rule) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rulesSnapshotKey, data, c.ttl).Err()
}

// SetConfigBlob stores the serialized sandbox configuration. The blob has no
// expiry: the checkout platform sync must always find the latest snapshot.
func (c *Cache) SetConfigBlob(ctx context.Context, blob []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, configBlobKey, blob, 0).Err()
}

// GetConfigBlob returns the stored sandbox configuration blob, if any.
func (c *Cache) GetConfigBlob(ctx context.Context) ([]byte, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, configBlobKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
