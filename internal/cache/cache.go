package cache

import (
	"context"
	"time"
)

// Cache is the JSON key-value contract shared by the durable (Redis) and
// in-process backends. A ttl of zero means no expiry.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
