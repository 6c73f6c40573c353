package schema

import (
	"context"
	"sync"

	"github.com/askdb/askdb/internal/logging"
)

// SnapshotBuilder is the build step the cache memoizes.
type SnapshotBuilder interface {
	Build(ctx context.Context) (Snapshot, error)
}

// Cache memoizes at most one formatted schema at a time. There is no TTL and
// no background refresh; staleness is handled only by explicit Invalidate
// calls from the owner.
//
// The mutex is held across the build, so a concurrent Invalidate cannot race
// an in-flight build into the slot.
type Cache struct {
	mu      sync.Mutex
	builder SnapshotBuilder
	slot    string
	filled  bool
}

// NewCache creates a cache around a snapshot builder.
func NewCache(builder SnapshotBuilder) *Cache {
	return &Cache{builder: builder}
}

// GetOrBuild returns the cached formatted schema, building it first if the
// slot is empty. useCache=false forces a rebuild and overwrites the slot.
//
// A build failure is never stored: the slot is cleared, UnavailableText is
// returned, and the next call retries the build.
func (c *Cache) GetOrBuild(ctx context.Context, useCache bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if useCache && c.filled {
		return c.slot
	}

	snapshot, err := c.builder.Build(ctx)
	if err != nil {
		logging.ErrorWithErr("failed to build schema snapshot", err)

		c.slot = ""
		c.filled = false

		return UnavailableText
	}

	c.slot = Format(snapshot)
	c.filled = true

	return c.slot
}

// Invalidate clears the slot unconditionally. The next GetOrBuild rebuilds
// from the live source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slot = ""
	c.filled = false

	logging.Info("schema cache cleared")
}
