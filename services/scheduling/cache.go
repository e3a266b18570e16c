package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"ototakibim/models"
	"ototakibim/utils"
)

// AvailabilityInvalidator drops cached availability for a resource-date after
// a write. The coordinator calls it after every commit that changes the
// occupied set.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, tenantID, resourceID, date string)
}

// CachedResolver fronts a Resolver with a short-TTL Redis cache. Entries for
// one (tenant, resource, date) live in a single hash keyed by duration, so a
// write invalidates every cached duration with one DEL.
type CachedResolver struct {
	Inner *Resolver
	Cache *redis.Client
}

func availabilityKey(tenantID, resourceID, date string) string {
	return fmt.Sprintf("%s%s:%s:%s", utils.AvailabilityCachePrefix, tenantID, resourceID, date)
}

// FreeSlots serves from cache when possible and falls through to the resolver
// otherwise. Cache failures degrade to a direct resolver call; availability
// must keep working when Redis does not.
func (c *CachedResolver) FreeSlots(ctx context.Context, tenantID, date string, durationMinutes int, resourceID string) ([]models.Slot, error) {
	if c.Cache == nil {
		return c.Inner.FreeSlots(ctx, tenantID, date, durationMinutes, resourceID)
	}
	key := availabilityKey(tenantID, resourceID, date)
	field := strconv.Itoa(durationMinutes)

	if cached, err := c.Cache.HGet(ctx, key, field).Result(); err == nil {
		var slots []models.Slot
		if err := json.Unmarshal([]byte(cached), &slots); err == nil {
			return slots, nil
		}
	}

	slots, err := c.Inner.FreeSlots(ctx, tenantID, date, durationMinutes, resourceID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(slots); err == nil {
		pipe := c.Cache.TxPipeline()
		pipe.HSet(ctx, key, field, payload)
		pipe.Expire(ctx, key, utils.AvailabilityCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			utils.GetLogger().Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
		}
	}
	return slots, nil
}

// Invalidate implements AvailabilityInvalidator.
func (c *CachedResolver) Invalidate(ctx context.Context, tenantID, resourceID, date string) {
	if c.Cache == nil {
		return
	}
	key := availabilityKey(tenantID, resourceID, date)
	if err := c.Cache.Del(ctx, key).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTenant drops every cached slot list for a tenant. Called after a
// calendar policy replacement, where slot lists computed under the old hours
// would otherwise survive until their TTL.
func (c *CachedResolver) InvalidateTenant(ctx context.Context, tenantID string) {
	if c.Cache == nil {
		return
	}
	pattern := utils.AvailabilityCachePrefix + tenantID + ":*"
	iter := c.Cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			utils.GetLogger().Warn("failed to flush availability cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("availability cache scan failed", zap.String("tenantId", tenantID), zap.Error(err))
	}
}
