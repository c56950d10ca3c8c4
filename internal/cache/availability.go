// Package cache keeps per-listing disabled dates in Redis so listing pages do
// not re-read every reservation on each view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// AvailabilityCache stores disabled days under listing:{id}:disabled-dates.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func key(listingID string) string {
	return fmt.Sprintf("listing:%s:disabled-dates", listingID)
}

// Get returns the cached days; ok is false on a miss.
func (c *AvailabilityCache) Get(ctx context.Context, listingID string) ([]time.Time, bool, error) {
	raw, err := c.rdb.Get(ctx, key(listingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("AvailabilityCache.Get: %w", err)
	}
	days, err := decodeDays(raw)
	if err != nil {
		return nil, false, fmt.Errorf("AvailabilityCache.Get: %w", err)
	}
	return days, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, listingID string, days []time.Time) error {
	raw, err := encodeDays(days)
	if err != nil {
		return fmt.Errorf("AvailabilityCache.Set: %w", err)
	}
	if err := c.rdb.Set(ctx, key(listingID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("AvailabilityCache.Set: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, listingID string) error {
	if err := c.rdb.Del(ctx, key(listingID)).Err(); err != nil {
		return fmt.Errorf("AvailabilityCache.Invalidate: %w", err)
	}
	return nil
}

func encodeDays(days []time.Time) ([]byte, error) {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(time.DateOnly))
	}
	return json.Marshal(out)
}

func decodeDays(raw []byte) ([]time.Time, error) {
	var in []string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	days := make([]time.Time, 0, len(in))
	for _, s := range in {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// Noop never stores anything. It stands in when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]time.Time, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, []time.Time) error {
	return nil
}

func (Noop) Invalidate(context.Context, string) error {
	return nil
}
