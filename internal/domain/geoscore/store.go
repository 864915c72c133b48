package geoscore

import (
	"context"
	"log/slog"
)

// Store is a key-addressable record store. Save must replace a single key
// atomically; implementations never rewrite unrelated keys.
type Store interface {
	Load(ctx context.Context, key string) (LocationRecord, bool, error)
	Save(ctx context.Context, key string, record LocationRecord) error
}

// JobQueue enqueues background work.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// LocationCache applies the persistence rules on top of a Store.
type LocationCache struct {
	store  Store
	logger *slog.Logger
}

// NewLocationCache wraps store.
func NewLocationCache(store Store, logger *slog.Logger) *LocationCache {
	return &LocationCache{store: store, logger: logger.With("component", "geoscore.cache")}
}

// Get returns the record stored under key.
func (c *LocationCache) Get(ctx context.Context, key string) (LocationRecord, bool, error) {
	if key == "" {
		return LocationRecord{}, false, nil
	}
	return c.store.Load(ctx, key)
}

// Put stores record under key unless it is seeded demo data. It reports
// whether the record was written.
func (c *LocationCache) Put(ctx context.Context, key string, record LocationRecord) (bool, error) {
	if record.Seeded {
		c.logger.Debug("seeded record not persisted", "key", key)
		return false, nil
	}
	if key == "" {
		return false, nil
	}
	if err := c.store.Save(ctx, key, record); err != nil {
		return false, err
	}
	return true, nil
}
