package promotion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedFinder is a cache-aside Finder backed by Redis. Concurrent misses for
// the same code collapse into one database read. Redis failures fall back to
// the wrapped Finder.
//
// Cached rows may lag behind used_count; the conditional increment at commit
// time is what enforces the usage limit.
type CachedFinder struct {
	next   Finder
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
	group  singleflight.Group
}

func NewCachedFinder(next Finder, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedFinder {
	return &CachedFinder{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(code string) string { return "promotion:code:" + strings.ToUpper(code) }

func (c *CachedFinder) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	key := cacheKey(code)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		p := &Promotion{}
		if err := json.Unmarshal(raw, p); err == nil {
			return p, nil
		}
		c.log.Warn("discarding corrupt promotion cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("promotion cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		p, err := c.next.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(p); err == nil {
			if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
				c.log.Warn("promotion cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Promotion), nil
}

// Invalidate drops the cached entry for code.
func (c *CachedFinder) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, cacheKey(code)).Err()
}
