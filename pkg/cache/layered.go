package cache

import (
	"context"
	"time"
)

// LayeredCache reads through memory first, then Redis, promoting Redis
// hits into the memory layer. Writes go to both layers.
type LayeredCache struct {
	memory Service
	remote Service
}

// NewLayeredCache composes a memory cache in front of a remote cache.
func NewLayeredCache(memory, remote Service) *LayeredCache {
	return &LayeredCache{memory: memory, remote: remote}
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.memory.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return c.remote.Set(ctx, key, value, expiration)
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.memory.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := c.remote.Get(ctx, key, dest); err != nil {
		return err
	}
	// promote; expiration in the memory layer is conservative
	_ = c.memory.Set(ctx, key, dest, time.Minute)
	return nil
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	if err := c.memory.Delete(ctx, keys...); err != nil {
		return err
	}
	return c.remote.Delete(ctx, keys...)
}

func (c *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := c.memory.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	return c.remote.Exists(ctx, keys...)
}

func (c *LayeredCache) Close() error {
	if err := c.memory.Close(); err != nil {
		return err
	}
	return c.remote.Close()
}
