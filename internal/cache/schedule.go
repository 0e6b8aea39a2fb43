// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScheduleCache is a thin byte-value cache over Valkey. The schedule
// manager serializes weeks through it; this layer only namespaces keys
// and translates the miss sentinel.
type ScheduleCache struct {
	client *redis.Client
	prefix string
}

// NewScheduleCache creates a schedule cache backed by the given client.
func NewScheduleCache(client *redis.Client) *ScheduleCache {
	return &ScheduleCache{client: client, prefix: "brandforge:"}
}

// Get retrieves a value. Returns (nil, nil) on miss.
func (c *ScheduleCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *ScheduleCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *ScheduleCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
