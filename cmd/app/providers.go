package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
	"github.com/yanqian/geoscore/internal/infra/archive/queue"
	"github.com/yanqian/geoscore/internal/infra/archive/storage"
	"github.com/yanqian/geoscore/internal/infra/config"
	"github.com/yanqian/geoscore/internal/infra/locationstore"
)

func provideScoringConfig(cfg *config.Config) geoscore.Config {
	out := geoscore.DefaultConfig()
	if len(cfg.Scoring.BusinessTypes) > 0 {
		out.BusinessTypes = cfg.Scoring.BusinessTypes
	}
	if len(cfg.Scoring.GenericCompetitors) > 0 {
		out.GenericCompetitors = cfg.Scoring.GenericCompetitors
	}
	if cfg.Scoring.SearchRadiusMeters > 0 {
		out.SearchRadiusMeters = cfg.Scoring.SearchRadiusMeters
	}
	return out
}

func provideLocationStore(cfg *config.Config, logger *slog.Logger) (geoscore.Store, func()) {
	fallback := func(reason string, err error) (geoscore.Store, func()) {
		logger.Error(reason+", using memory location store", "backend", cfg.Cache.Backend, "error", err)
		return locationstore.NewMemoryStore(cfg.Cache.TTL), func() {}
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendValkey:
		client, err := openValkey(cfg.Cache.Valkey.Addr)
		if err != nil {
			return fallback("valkey unavailable", err)
		}
		logger.Info("valkey location store enabled", "addr", cfg.Cache.Valkey.Addr)
		return locationstore.NewValkeyStore(client, cfg.Cache.KeyPrefix, cfg.Cache.TTL), client.Close
	case config.CacheBackendPostgres:
		pool, err := openPostgres(cfg.Cache.Postgres)
		if err != nil {
			return fallback("postgres unavailable", err)
		}
		store := locationstore.NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return fallback("postgres schema setup failed", err)
		}
		if cfg.Cache.TTL > 0 {
			logger.Warn("cache ttl is ignored by the postgres location store", "ttl", cfg.Cache.TTL)
		}
		logger.Info("postgres location store enabled")
		return store, pool.Close
	default:
		logger.Info("memory location store enabled", "ttl", cfg.Cache.TTL)
		return locationstore.NewMemoryStore(cfg.Cache.TTL), func() {}
	}
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) geoscore.ObjectStorage {
	r2 := cfg.Archive.R2
	if !r2.Configured() {
		logger.Info("r2 not configured, archiving snapshots in memory")
		return storage.NewMemoryStorage()
	}
	store, err := storage.NewR2Storage(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, logger)
	if err != nil {
		logger.Error("failed to initialize r2 storage, archiving snapshots in memory", "error", err)
		return storage.NewMemoryStorage()
	}
	logger.Info("r2 snapshot storage enabled", "bucket", r2.Bucket)
	return store
}

func provideSnapshotArchiver(cfg *config.Config, store geoscore.Store, objects geoscore.ObjectStorage, logger *slog.Logger) *geoscore.SnapshotArchiver {
	return geoscore.NewSnapshotArchiver(store, objects, cfg.Archive.R2.Prefix, logger)
}

// provideArchiveQueue returns a nil queue when archiving is disabled so the
// service skips enqueueing entirely.
func provideArchiveQueue(cfg *config.Config, archiver *geoscore.SnapshotArchiver, logger *slog.Logger) (geoscore.JobQueue, func()) {
	if !cfg.Archive.Enabled {
		return nil, func() {}
	}
	if cfg.Archive.Queue == config.QueueValkey {
		client, err := openValkey(cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("valkey queue unavailable, archiving in-process", "error", err)
		} else {
			q := queue.NewValkeyQueue(client, cfg.Archive.QueueKey, logger)
			q.SetHandler(archiver.Handle)
			logger.Info("valkey archive queue enabled", "key", cfg.Archive.QueueKey)
			return q, func() {
				q.Close()
				client.Close()
			}
		}
	}
	q := queue.NewImmediateQueue(archiver.Handle)
	return q, q.Wait
}

func openValkey(addr string) (valkey.Client, error) {
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func openPostgres(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
