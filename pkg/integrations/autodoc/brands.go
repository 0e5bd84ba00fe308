package autodoc

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/partscout/pkg/cache"
	"github.com/matzehuels/partscout/pkg/observability"
)

// BrandsCacheKey returns the backing-store key of the brand directory served
// by the catalog at baseURL. An empty baseURL means [DefaultCatalogURL].
func BrandsCacheKey(baseURL string) string {
	return cache.Key("autodoc:brands", catalogRoot(baseURL))
}

// BrandCache holds the catalog brand directory for the life of the process.
// It is read-through: the first lookup loads the directory (from the backing
// store if it has a fresh copy, otherwise from the catalog) and later lookups
// never touch the network. Entries are never invalidated.
//
// A BrandCache is safe for concurrent use and is meant to be shared by
// reference between every client in the process.
type BrandCache struct {
	store cache.Cache
	key   string
	ttl   time.Duration

	mu     sync.RWMutex
	brands []Brand
	codes  map[string]string // lower-cased name -> code
	loaded bool

	group singleflight.Group
}

// NewBrandCache creates an empty cache for the catalog at baseURL. store may
// be nil; ttl applies to the copy written to store.
func NewBrandCache(store cache.Cache, baseURL string, ttl time.Duration) *BrandCache {
	if store == nil {
		store = cache.NewNullCache()
	}
	return &BrandCache{store: store, key: BrandsCacheKey(baseURL), ttl: ttl}
}

// Lookup returns the code for name (case-insensitive exact match) and whether
// it was found. load is called at most once per process to fill the cache.
func (c *BrandCache) Lookup(ctx context.Context, name string, load func(context.Context) ([]Brand, error)) (string, bool, error) {
	if err := c.ensure(ctx, load); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	code, ok := c.codes[normalizeBrand(name)]
	return code, ok, nil
}

// Brands returns the directory, loading it if needed.
func (c *BrandCache) Brands(ctx context.Context, load func(context.Context) ([]Brand, error)) ([]Brand, error) {
	if err := c.ensure(ctx, load); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Brand(nil), c.brands...), nil
}

func (c *BrandCache) ensure(ctx context.Context, load func(context.Context) ([]Brand, error)) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		observability.Cache().OnCacheHit(ctx, "brands")
		return nil
	}

	_, err, _ := c.group.Do(c.key, func() (any, error) {
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		var brands []Brand
		if ok, _ := cache.GetJSON(ctx, c.store, c.key, &brands); ok && len(brands) > 0 {
			observability.Cache().OnCacheHit(ctx, "brands")
			c.fill(brands)
			return nil, nil
		}
		observability.Cache().OnCacheMiss(ctx, "brands")

		brands, err := load(ctx)
		if err != nil || len(brands) == 0 {
			// An empty directory is not remembered; the next lookup asks again.
			return nil, err
		}
		c.fill(brands)
		if err := cache.SetJSON(ctx, c.store, c.key, brands, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "brands", len(brands))
		}
		return nil, nil
	})
	return err
}

func (c *BrandCache) fill(brands []Brand) {
	codes := make(map[string]string, len(brands))
	for _, b := range brands {
		key := normalizeBrand(b.Name)
		if key == "" || b.Code == "" {
			continue
		}
		if _, dup := codes[key]; !dup {
			codes[key] = b.Code
		}
	}
	c.mu.Lock()
	c.brands = brands
	c.codes = codes
	c.loaded = true
	c.mu.Unlock()
}

func normalizeBrand(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
