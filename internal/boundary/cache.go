package boundary

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/usmap/internal/geo"
)

// Source produces a boundary layer.
type Source interface {
	Load() (*geo.Collection, error)
}

// Cache holds the boundary layer for the lifetime of the process. The layer
// depends only on the static dataset, so it is built on first use and never
// invalidated. A failed build is not remembered; the next Get tries again.
//
// The returned collection is shared by every caller and must not be modified.
// Use Collection.Clone for per-request changes.
type Cache struct {
	src Source

	mu   sync.Mutex
	coll *geo.Collection
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Get returns the cached layer, loading it if needed.
func (c *Cache) Get() (*geo.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.coll != nil {
		return c.coll, nil
	}

	coll, err := c.src.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build boundary layer")
		return nil, err
	}

	c.coll = coll
	return coll, nil
}

// CRS returns the working CRS of the cached layer, loading it if needed.
func (c *Cache) CRS() (string, error) {
	coll, err := c.Get()
	if err != nil {
		return "", err
	}
	return coll.CRS, nil
}
