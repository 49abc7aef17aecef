package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
)

const bundleKeyPrefix = "bundle:"

// BuildFunc produces a bundle for one fingerprint.
type BuildFunc func(ctx context.Context) (*models.Bundle, error)

// BundleCache maps fingerprints to completed bundles and serializes builds
// per fingerprint: the first caller runs the build, concurrent callers wait
// for its result. A waiter that outlives buildWait runs its own build; the
// store stays deduplicated by fingerprint, last successful writer wins.
//
// The durable backend is optional and best-effort: its failures increment a
// counter and the local cache keeps satisfying the contract.
type BundleCache struct {
	local     *MemoryCache
	durable   Cache // nil when not configured
	buildWait time.Duration
	ttl       time.Duration
	counters  *metrics.Counters
	log       *logrus.Logger

	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done chan struct{}
}

func NewBundleCache(local *MemoryCache, durable Cache, buildWait, ttl time.Duration, counters *metrics.Counters, log *logrus.Logger) *BundleCache {
	if local == nil {
		local = NewMemoryCache(0)
	}
	if counters == nil {
		counters = &metrics.Counters{}
	}
	if log == nil {
		log = logrus.New()
	}
	if buildWait <= 0 {
		buildWait = 10 * time.Second
	}
	return &BundleCache{
		local:     local,
		durable:   durable,
		buildWait: buildWait,
		ttl:       ttl,
		counters:  counters,
		log:       log,
		inflight:  make(map[string]*flight),
	}
}

// Get returns the stored bundle for fp, consulting the durable backend first.
func (c *BundleCache) Get(ctx context.Context, fp string) (*models.Bundle, bool) {
	key := bundleKeyPrefix + fp

	if c.durable != nil {
		var b models.Bundle
		hit, err := c.durable.GetJSON(ctx, key, &b)
		if err != nil {
			c.counters.CacheBackendErrors.Add(1)
			c.log.WithError(err).WithField("fingerprint", fp).Warn("durable cache read failed")
		} else if hit {
			// keep a local copy so a durable outage does not force a rebuild
			_ = c.local.SetJSON(ctx, key, &b, c.ttl)
			return &b, true
		}
	}

	var b models.Bundle
	if hit, _ := c.local.GetJSON(ctx, key, &b); hit {
		return &b, true
	}
	return nil, false
}

// GetOrBuild returns the cached bundle for fp or builds it. With force the
// read is bypassed but the result is still stored, overwriting on success.
// Failed builds store nothing and leave any prior entry intact.
func (c *BundleCache) GetOrBuild(ctx context.Context, fp string, force bool, build BuildFunc) (*models.Bundle, error) {
	if !force {
		if b, ok := c.Get(ctx, fp); ok {
			c.counters.CacheHits.Add(1)
			return b, nil
		}
		c.counters.CacheMisses.Add(1)
	}

	for {
		c.mu.Lock()
		f, exists := c.inflight[fp]
		if !exists {
			f = &flight{done: make(chan struct{})}
			c.inflight[fp] = f
			c.mu.Unlock()

			b, err := build(ctx)
			if err == nil {
				c.store(ctx, fp, b)
			}

			c.mu.Lock()
			delete(c.inflight, fp)
			c.mu.Unlock()
			close(f.done)

			if err != nil {
				return nil, err
			}
			return b, nil
		}
		c.mu.Unlock()

		select {
		case <-f.done:
			if !force {
				if b, ok := c.Get(ctx, fp); ok {
					return b, nil
				}
			}
			// the in-flight build failed, or we are forcing; take a turn
		case <-time.After(c.buildWait):
			// waited out the in-flight build; proceed as if the cache
			// were empty
			b, err := build(ctx)
			if err != nil {
				return nil, err
			}
			c.store(ctx, fp, b)
			return b, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *BundleCache) store(ctx context.Context, fp string, b *models.Bundle) {
	key := bundleKeyPrefix + fp
	if err := c.local.SetJSON(ctx, key, b, c.ttl); err != nil {
		c.log.WithError(err).WithField("fingerprint", fp).Warn("local cache write failed")
	}
	if c.durable != nil {
		if err := c.durable.SetJSON(ctx, key, b, c.ttl); err != nil {
			c.counters.CacheBackendErrors.Add(1)
			c.log.WithError(err).WithField("fingerprint", fp).Warn("durable cache write failed")
		}
	}
}
