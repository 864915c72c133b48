package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"maps"
	"sort"
	"sync"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

// MemoryStorage keeps snapshots in process memory for local runs and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]geoscore.Object
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]geoscore.Object)}
}

// Put stores a copy of obj, replacing any object under the same key.
func (s *MemoryStorage) Put(_ context.Context, obj geoscore.Object) (geoscore.StoredObject, error) {
	sum := md5.Sum(obj.Data)
	etag := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.Key] = geoscore.Object{
		Key:         obj.Key,
		Data:        append([]byte(nil), obj.Data...),
		ContentType: obj.ContentType,
		Metadata:    maps.Clone(obj.Metadata),
	}
	return geoscore.StoredObject{
		Key:         obj.Key,
		Size:        int64(len(obj.Data)),
		ContentType: obj.ContentType,
		ETag:        etag,
	}, nil
}

// Object returns the archived object under key.
func (s *MemoryStorage) Object(key string) (geoscore.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Keys lists archived object keys in order.
func (s *MemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ geoscore.ObjectStorage = (*MemoryStorage)(nil)
