package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedLookup fronts another lookup with Redis. Only matches are cached, so a
// newly registered account is never hidden behind a stale miss.
type CachedLookup struct {
	next   intake.IdentityLookup
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLookup(next intake.IdentityLookup, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedLookup {
	return &CachedLookup{next: next, redis: rdb, ttl: ttl, logger: log}
}

var _ intake.IdentityLookup = (*CachedLookup)(nil)

func cacheKey(table models.IdentityTable, email string) string {
	return "identity:" + string(table) + ":" + email
}

// FindByEmail serves cached matches and otherwise defers to the wrapped lookup.
// Redis failures fall through to the source.
func (c *CachedLookup) FindByEmail(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error) {
	normalized := intake.NormalizeEmail(email)
	key := cacheKey(table, normalized)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []models.Identity
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil && len(cached) > 0 {
			return cached, nil
		}
	case !errors.Is(err, redis.Nil):
		c.warn("identity cache read failed", table, err)
	}

	identities, err := c.next.FindByEmail(ctx, table, normalized)
	if err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return identities, nil
	}

	data, err := json.Marshal(identities)
	if err != nil {
		return identities, nil
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		c.warn("identity cache write failed", table, err)
	}
	return identities, nil
}

func (c *CachedLookup) warn(msg string, table models.IdentityTable, err error) {
	cacheErr := apperrors.NewCacheUnavailableError(err)
	c.logger.Warn(msg, map[string]interface{}{
		"table":     string(table),
		"errorCode": string(cacheErr.Code),
		"error":     cacheErr.Details,
	})
}
