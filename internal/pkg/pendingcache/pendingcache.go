// Package pendingcache tracks short-lived verification state in Redis.
//
// Entries are advisory: the one-time code table in Postgres stays the source
// of truth, while this cache lets the API answer "is there a verification in
// flight for this subject" without touching the database.
package pendingcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache marks and reads pending verification entries keyed by subject.
type Cache struct {
	client *redis.Client
	prefix string
}

// New returns a Cache using the given Redis client.
func New(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		prefix: "pending:",
	}
}

// Mark records a pending verification for the subject with a TTL.
//
// value carries a small piece of flow state, such as the phone number the
// code was sent to.
func (c *Cache) Mark(ctx context.Context, subject, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+subject, value, ttl).Err()
}

// Get returns the pending value for the subject and whether one exists.
func (c *Cache) Get(ctx context.Context, subject string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

// Clear removes the pending entry for the subject.
func (c *Cache) Clear(ctx context.Context, subject string) error {
	return c.client.Del(ctx, c.prefix+subject).Err()
}

// Ping checks connectivity to the cache backend.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
