package locationstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS location_records (
		key          TEXT PRIMARY KEY,
		record       JSONB NOT NULL,
		score        INTEGER NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL
	)
`

// querier is the subset of pgxpool.Pool used by the store.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements geoscore.Store with one row per location key.
type PostgresStore struct {
	db querier
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create location_records: %w", err)
	}
	return nil
}

// Load fetches the record stored under key.
func (s *PostgresStore) Load(ctx context.Context, key string) (geoscore.LocationRecord, bool, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT record
		FROM location_records
		WHERE key = $1
	`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return geoscore.LocationRecord{}, false, nil
		}
		return geoscore.LocationRecord{}, false, fmt.Errorf("select location record: %w", err)
	}
	var record geoscore.LocationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return geoscore.LocationRecord{}, false, fmt.Errorf("decode record: %w", err)
	}
	return record, true, nil
}

// Save upserts the row for key in a single statement.
func (s *PostgresStore) Save(ctx context.Context, key string, record geoscore.LocationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO location_records (key, record, score, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET record = EXCLUDED.record,
			score = EXCLUDED.score,
			last_updated = EXCLUDED.last_updated
	`, key, payload, record.Score, record.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert location record: %w", err)
	}
	return nil
}

var _ geoscore.Store = (*PostgresStore)(nil)
