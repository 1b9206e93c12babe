package registrar

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a registrar answer is reused.
// Availability flips when a domain drops or is bought, so the window is
// deliberately short.
const DefaultCacheTTL = 15 * time.Minute

const cacheKeyPrefix = "domainscout:avail:"

// CachedChecker is a read-through Redis cache in front of another
// Checker. Cache failures degrade to a direct lookup; the cache never
// turns a working checker into a broken one.
type CachedChecker struct {
	inner  Checker
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedChecker wraps inner with a Redis read-through cache.
func NewCachedChecker(inner Checker, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedChecker {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedChecker{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Compile-time interface check.
var _ Checker = (*CachedChecker)(nil)

// CheckAvailability returns the cached answer when present, otherwise
// asks the inner checker and stores its answer. Lookup errors are never
// cached.
func (c *CachedChecker) CheckAvailability(ctx context.Context, name string) (*Availability, error) {
	key := cacheKeyPrefix + name

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var avail Availability
		if jsonErr := json.Unmarshal([]byte(cached), &avail); jsonErr == nil {
			return &avail, nil
		}
		// Corrupt entry: fall through to a live lookup and overwrite.
	} else if err != redis.Nil {
		c.logger.Warn("availability cache read failed", "domain", name, "error", err)
	}

	avail, err := c.inner.CheckAvailability(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(avail); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("availability cache write failed", "domain", name, "error", setErr)
		}
	}
	return avail, nil
}
