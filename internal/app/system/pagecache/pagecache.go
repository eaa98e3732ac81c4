// Package pagecache holds the regenerated public page payloads and the
// derived page metadata the public site reads from.
//
// Entries are rebuilt lazily: a miss runs the supplied builder once
// (concurrent misses for the same key share one build) and stores the result
// with the configured TTL. Revalidate drops the metadata cache and the fixed
// set of top-level pages so the next request rebuilds them.
package pagecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/metrics"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LayoutKey identifies the root layout payload (site-wide SEO and menus).
const LayoutKey = "layout"

// RevalidatedPaths are dropped on every Revalidate, together with LayoutKey.
var RevalidatedPaths = []string{"/", "/cars", "/blog", "/about", "/contact"}

// Config sets entry lifetimes. Zero values fall back to defaults.
type Config struct {
	MetadataTTL time.Duration
	PageTTL     time.Duration
}

const (
	defaultMetadataTTL = 10 * time.Minute
	defaultPageTTL     = 5 * time.Minute
)

// Cache is safe for concurrent use.
type Cache struct {
	meta   *cache.Cache
	pages  *cache.Cache
	builds singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// New creates an empty cache.
func New(cfg Config, logger *zap.Logger) *Cache {
	if cfg.MetadataTTL <= 0 {
		cfg.MetadataTTL = defaultMetadataTTL
	}
	if cfg.PageTTL <= 0 {
		cfg.PageTTL = defaultPageTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		meta:   cache.New(cfg.MetadataTTL, 2*cfg.MetadataTTL),
		pages:  cache.New(cfg.PageTTL, 2*cfg.PageTTL),
		logger: logger,
		now:    time.Now,
	}
}

// Metadata returns the cached metadata for a page identity, building it on a
// miss. Build errors are returned and nothing is cached.
func (c *Cache) Metadata(ctx context.Context, key string, build func(context.Context) (models.PageMeta, error)) (models.PageMeta, error) {
	if v, ok := c.meta.Get(key); ok {
		metrics.CacheHit("metadata")
		return v.(models.PageMeta), nil
	}
	metrics.CacheMiss("metadata")

	v, err, _ := c.builds.Do("meta:"+key, func() (any, error) {
		m, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.meta.SetDefault(key, m)
		return m, nil
	})
	if err != nil {
		return models.PageMeta{}, err
	}
	return v.(models.PageMeta), nil
}

// Page returns the cached payload for path, building it on a miss.
func (c *Cache) Page(ctx context.Context, path string, build func(context.Context) (any, error)) (any, error) {
	if v, ok := c.pages.Get(path); ok {
		metrics.CacheHit("pages")
		return v, nil
	}
	metrics.CacheMiss("pages")

	v, err, _ := c.builds.Do("page:"+path, func() (any, error) {
		p, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.pages.SetDefault(path, p)
		return p, nil
	})
	return v, err
}

// Cached reports whether a payload for path is currently stored.
func (c *Cache) Cached(path string) bool {
	_, ok := c.pages.Get(path)
	return ok
}

// MetadataCount returns the number of metadata entries held.
func (c *Cache) MetadataCount() int {
	return c.meta.ItemCount()
}

// Result describes one Revalidate call.
type Result struct {
	Timestamp time.Time
	Paths     []string
}

// Revalidate clears the metadata cache and marks RevalidatedPaths plus the
// layout as stale. Each step runs even if an earlier one failed; the
// returned error joins every failure.
func (c *Cache) Revalidate() (Result, error) {
	var errs []error

	if err := safely(c.meta.Flush); err != nil {
		errs = append(errs, fmt.Errorf("clear metadata: %w", err))
	}

	keys := append([]string{LayoutKey}, RevalidatedPaths...)
	for _, k := range keys {
		k := k
		if err := safely(func() { c.pages.Delete(k) }); err != nil {
			errs = append(errs, fmt.Errorf("revalidate %s: %w", k, err))
		}
	}

	err := errors.Join(errs...)
	metrics.Revalidated(err == nil)
	if err != nil {
		c.logger.Error("revalidation incomplete", zap.Error(err))
	} else {
		c.logger.Info("pages revalidated", zap.Strings("paths", keys))
	}
	return Result{Timestamp: c.now().UTC(), Paths: keys}, err
}

// safely turns a panic in one invalidation step into an error so the
// remaining steps still run.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}
