package catalog

import (
	"encoding/json"

	"github.com/2beens/gymstats/internal/gymstats/analytics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024
	// freecache refuses anything smaller
	minCacheSize = 512 * 1024

	lookupCacheExpire = 60 * 60 // seconds
)

var _ analytics.Catalog = (*Cached)(nil)

// Cached memoizes Lookup results, misses included, in a freecache instance.
type Cached struct {
	catalog analytics.Catalog
	cache   *freecache.Cache
}

// NewCached wraps catalog with a lookup cache of cacheSizeMB megabytes (at least 512KB).
func NewCached(catalog analytics.Catalog, cacheSizeMB int) *Cached {
	cacheSize := cacheSizeMB * megabyte
	if cacheSize < minCacheSize {
		cacheSize = minCacheSize
	}
	return &Cached{
		catalog: catalog,
		cache:   freecache.NewCache(cacheSize),
	}
}

func (c *Cached) Lookup(nameOrKey string) (analytics.CatalogEntry, bool) {
	cacheKey := []byte("lookup::" + nameOrKey)
	if raw, err := c.cache.Get(cacheKey); err == nil {
		// empty value marks a cached miss
		if len(raw) == 0 {
			return analytics.CatalogEntry{}, false
		}
		var entry analytics.CatalogEntry
		if err := json.Unmarshal(raw, &entry); err == nil {
			return entry, true
		} else {
			log.Errorf("unmarshal cached catalog entry %q: %s", nameOrKey, err)
		}
	}

	entry, found := c.catalog.Lookup(nameOrKey)

	var value []byte
	if found {
		var err error
		if value, err = json.Marshal(entry); err != nil {
			log.Errorf("marshal catalog entry %q: %s", nameOrKey, err)
			return entry, found
		}
	}
	if err := c.cache.Set(cacheKey, value, lookupCacheExpire); err != nil {
		log.Debugf("cache catalog lookup %q: %s", nameOrKey, err)
	}

	return entry, found
}

func (c *Cached) Entries() []analytics.CatalogEntry {
	return c.catalog.Entries()
}

func (c *Cached) HitCount() int64 {
	return c.cache.HitCount()
}

func (c *Cached) MissCount() int64 {
	return c.cache.MissCount()
}
