package locationstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

type memoryEntry struct {
	record    geoscore.LocationRecord
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of geoscore.Store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	records map[string]memoryEntry
}

// NewMemoryStore constructs a store backed by process memory. A zero ttl
// keeps records until they are replaced.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		records: make(map[string]memoryEntry),
	}
}

// Load implements geoscore.Store.
func (s *MemoryStore) Load(_ context.Context, key string) (geoscore.LocationRecord, bool, error) {
	s.mu.RLock()
	entry, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return geoscore.LocationRecord{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		// re-check: a concurrent Save may have refreshed the key
		if current, ok := s.records[key]; ok && hasExpired(current.expiresAt) {
			delete(s.records, key)
		}
		s.mu.Unlock()
		return geoscore.LocationRecord{}, false, nil
	}
	return entry.record, true, nil
}

// Save replaces the single entry under key.
func (s *MemoryStore) Save(_ context.Context, key string, record geoscore.LocationRecord) error {
	exp := time.Time{}
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	s.records[key] = memoryEntry{record: record, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ geoscore.Store = (*MemoryStore)(nil)
