package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache memoizes CheckAvailability answers per vehicle and date
// range. Implementations are best effort: a failed lookup is a miss.
type AvailabilityCache interface {
	Get(ctx context.Context, vehicleID string, start, end time.Time) CacheLookup
	// Set stores an answer computed after lookup was taken. Answers computed
	// before an invalidation are discarded.
	Set(ctx context.Context, vehicleID string, start, end time.Time, lookup CacheLookup, available bool)
	// Invalidate drops every cached answer for the vehicle.
	Invalidate(ctx context.Context, vehicleID string)
}

// CacheLookup is the result of AvailabilityCache.Get.
type CacheLookup struct {
	Hit        bool
	Available  bool
	Generation int64
}

// NoopCache never hits.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, time.Time, time.Time) CacheLookup        { return CacheLookup{} }
func (NoopCache) Set(context.Context, string, time.Time, time.Time, CacheLookup, bool) {}
func (NoopCache) Invalidate(context.Context, string)                                   {}

// RedisCache keys entries under a per-vehicle generation counter, so one
// INCR invalidates every range cached for that vehicle. Stale generations
// expire through the TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func generationKey(vehicleID string) string {
	return "availability:" + vehicleID + ":gen"
}

func entryKey(vehicleID string, gen int64, start, end time.Time) string {
	return fmt.Sprintf("availability:%s:%d:%s:%s", vehicleID, gen, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

func (c *RedisCache) generation(ctx context.Context, vehicleID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(vehicleID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context, vehicleID string, start, end time.Time) CacheLookup {
	gen, err := c.generation(ctx, vehicleID)
	if err != nil {
		log.Printf("availability cache: read generation of %s failed: %v", vehicleID, err)
		return CacheLookup{Generation: -1}
	}

	v, err := c.rdb.Get(ctx, entryKey(vehicleID, gen, start, end)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("availability cache: get failed: %v", err)
		}
		return CacheLookup{Generation: gen}
	}
	return CacheLookup{Hit: true, Available: v == "1", Generation: gen}
}

// Set writes under the generation seen by Get. If the vehicle was
// invalidated in between, the entry lands under a dead generation and is
// never read.
func (c *RedisCache) Set(ctx context.Context, vehicleID string, start, end time.Time, lookup CacheLookup, available bool) {
	if lookup.Generation < 0 {
		return
	}

	value := "0"
	if available {
		value = "1"
	}
	if err := c.rdb.Set(ctx, entryKey(vehicleID, lookup.Generation, start, end), value, c.ttl).Err(); err != nil {
		log.Printf("availability cache: set failed: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, vehicleID string) {
	if err := c.rdb.Incr(ctx, generationKey(vehicleID)).Err(); err != nil {
		log.Printf("availability cache: invalidate %s failed: %v", vehicleID, err)
	}
}
