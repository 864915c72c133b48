package locationstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

// ValkeyStore persists location records in a Valkey-compatible database.
// Each record lives under its own key so writes never touch other locations.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "geoscore"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Load fetches the record stored under key. A missing key reports false
// with a nil error.
func (s *ValkeyStore) Load(ctx context.Context, key string) (geoscore.LocationRecord, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return geoscore.LocationRecord{}, false, nil
		}
		return geoscore.LocationRecord{}, false, fmt.Errorf("valkey get: %w", err)
	}
	var record geoscore.LocationRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return geoscore.LocationRecord{}, false, fmt.Errorf("decode record: %w", err)
	}
	return record, true, nil
}

// Save writes record as JSON under key. When a TTL is configured the entry
// expires after it, never sooner than one second.
func (s *ValkeyStore) Save(ctx context.Context, key string, record geoscore.LocationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		cmd = builder.Ex(expiry(s.ttl)).Build()
	} else {
		cmd = builder.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:location:%s", s.prefix, key)
}

// expiry converts ttl to whole seconds for EX, floored at one second.
func expiry(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl.Truncate(time.Second)
}

var _ geoscore.Store = (*ValkeyStore)(nil)
