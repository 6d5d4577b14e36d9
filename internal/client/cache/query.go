package cache

import (
	"context"
	"fmt"
)

// Query is a typed read of one key.
func Query[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	var f Fetcher
	if fetch != nil {
		f = func(ctx context.Context) (any, error) { return fetch(ctx) }
	}
	v, err := c.Get(ctx, key, f)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache %s: unexpected value type %T", key, v)
	}
	return t, nil
}
