package practitioner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"caseflow/internal/platform/redis"
)

// Source resolves blocking flags for a practitioner.
type Source interface {
	Flags(ctx context.Context, practitionerID string) (Flags, error)
}

// Cache fronts a Source with a Redis TTL cache. Flags change rarely; the TTL
// bounds how long a lifted sanction keeps blocking cases. A nil Redis client
// degrades to direct lookups, and cache errors never fail the lookup.
type Cache struct {
	source Source
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(source Source, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{source: source, client: client, ttl: ttl, logger: logger}
}

func cacheKey(practitionerID string) string {
	return "caseflow:practitioner:flags:" + practitionerID
}

func (c *Cache) Flags(ctx context.Context, practitionerID string) (Flags, error) {
	if c.client == nil || practitionerID == "" {
		return c.source.Flags(ctx, practitionerID)
	}

	key := cacheKey(practitionerID)
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var flags Flags
		if err := json.Unmarshal([]byte(raw), &flags); err == nil {
			return flags, nil
		}
		// Unreadable entry; drop it and fall through to the source.
		c.client.Del(ctx, key)
	} else if err != goredis.Nil {
		c.logger.WarnContext(ctx, "practitioner flag cache read failed",
			"practitioner_id", practitionerID,
			"error", err,
		)
	}

	flags, err := c.source.Flags(ctx, practitionerID)
	if err != nil {
		return Flags{}, err
	}

	if raw, err := json.Marshal(flags); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "practitioner flag cache write failed",
				"practitioner_id", practitionerID,
				"error", err,
			)
		}
	}
	return flags, nil
}
