package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/craveq/backend/internal/model"
)

const decodeCachePrefix = "decode:craving:"

// CachedUpgrader is a read-through Redis cache in front of another Upgrader.
// Only successful lookups are cached; Redis failures never fail a lookup.
type CachedUpgrader struct {
	next  Upgrader
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedUpgrader wraps next with a cache whose entries expire after ttl
func NewCachedUpgrader(next Upgrader, redisClient *redis.Client, ttl time.Duration) *CachedUpgrader {
	return &CachedUpgrader{
		next:  next,
		redis: redisClient,
		ttl:   ttl,
	}
}

func cacheKey(craving string) string {
	return decodeCachePrefix + NormalizeCraving(craving)
}

// UpgradeRecipe serves the craving from cache or delegates and stores the result
func (u *CachedUpgrader) UpgradeRecipe(ctx context.Context, craving string) ([]model.Alternative, error) {
	key := cacheKey(craving)

	data, err := u.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var alternatives []model.Alternative
		if err := json.Unmarshal(data, &alternatives); err == nil {
			return alternatives, nil
		}
		log.Printf("[CachedUpgrader] Discarding unreadable cache entry %s: %v", key, err)
	case !errors.Is(err, redis.Nil):
		log.Printf("[CachedUpgrader] Cache read failed for %s: %v", key, err)
	}

	alternatives, err := u.next.UpgradeRecipe(ctx, craving)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(alternatives)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alternatives: %w", err)
	}
	if err := u.redis.Set(ctx, key, data, u.ttl).Err(); err != nil {
		log.Printf("[CachedUpgrader] Cache write failed for %s: %v", key, err)
	}

	return alternatives, nil
}

// Invalidate removes every cached decode result
func (u *CachedUpgrader) Invalidate(ctx context.Context) error {
	iter := u.redis.Scan(ctx, 0, decodeCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan decode cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := u.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear decode cache: %w", err)
	}
	return nil
}
