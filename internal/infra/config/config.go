package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheBackendMemory   = "memory"
	CacheBackendValkey   = "valkey"
	CacheBackendPostgres = "postgres"
)

// Archive queue kinds.
const (
	QueueImmediate = "immediate"
	QueueValkey    = "valkey"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Scoring ScoringConfig `yaml:"scoring"`
	Cache   CacheConfig   `yaml:"cache"`
	Archive ArchiveConfig `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// ScoringConfig carries the competitor classification table.
type ScoringConfig struct {
	BusinessTypes      map[string][]string `yaml:"businessTypes"`
	GenericCompetitors []string            `yaml:"genericCompetitors"`
	SearchRadiusMeters float64             `yaml:"searchRadiusMeters"`
}

// CacheConfig selects and configures the location cache backend.
type CacheConfig struct {
	Backend   string         `yaml:"backend"`
	KeyPrefix string         `yaml:"keyPrefix"`
	TTL       time.Duration  `yaml:"ttl"`
	Valkey    ValkeyConfig   `yaml:"valkey"`
	Postgres  PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for Valkey.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig controls nearby-places snapshot archiving.
type ArchiveConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Queue    string   `yaml:"queue"`
	QueueKey string   `yaml:"queueKey"`
	R2       R2Config `yaml:"r2"`
}

// R2Config holds S3-compatible object storage credentials.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// Configured reports whether enough settings exist to reach the bucket.
func (r R2Config) Configured() bool {
	return strings.TrimSpace(r.Endpoint) != "" && strings.TrimSpace(r.Bucket) != ""
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("SCORING_SEARCH_RADIUS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.SearchRadiusMeters = parsed
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CACHE_KEY_PREFIX"); v != "" {
		cfg.Cache.KeyPrefix = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("CACHE_POSTGRES_DSN"); v != "" {
		cfg.Cache.Postgres.DSN = v
	}
	if v := os.Getenv("CACHE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CACHE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = parseBool(v)
	}
	if v := os.Getenv("ARCHIVE_QUEUE"); v != "" {
		cfg.Archive.Queue = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("ARCHIVE_QUEUE_KEY"); v != "" {
		cfg.Archive.QueueKey = v
	}
	if v := os.Getenv("ARCHIVE_R2_ENDPOINT"); v != "" {
		cfg.Archive.R2.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_R2_ACCESS_KEY"); v != "" {
		cfg.Archive.R2.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_R2_SECRET_KEY"); v != "" {
		cfg.Archive.R2.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_R2_BUCKET"); v != "" {
		cfg.Archive.R2.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_R2_REGION"); v != "" {
		cfg.Archive.R2.Region = v
	}
	if v := os.Getenv("ARCHIVE_R2_PREFIX"); v != "" {
		cfg.Archive.R2.Prefix = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Scoring: ScoringConfig{
			SearchRadiusMeters: 2000,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			KeyPrefix: "geoscore",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Archive: ArchiveConfig{
			Enabled:  false,
			Queue:    QueueImmediate,
			QueueKey: "geoscore:jobs",
			R2: R2Config{
				Region: "auto",
				Prefix: "snapshots",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Scoring.SearchRadiusMeters <= 0 {
		return errors.New("scoring.searchRadiusMeters must be positive")
	}
	for id, tags := range c.Scoring.BusinessTypes {
		if strings.TrimSpace(id) == "" {
			return errors.New("scoring.businessTypes cannot contain an empty id")
		}
		if len(tags) == 0 {
			return fmt.Errorf("scoring.businessTypes.%s must list at least one competitor tag", id)
		}
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendValkey:
		if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty when the valkey backend is selected")
		}
	case CacheBackendPostgres:
		if strings.TrimSpace(c.Cache.Postgres.DSN) == "" {
			return errors.New("cache.postgres.dsn cannot be empty when the postgres backend is selected")
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Archive.Enabled {
		switch c.Archive.Queue {
		case QueueImmediate:
		case QueueValkey:
			if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
				return errors.New("cache.valkey.addr cannot be empty when archive.queue is valkey")
			}
		default:
			return fmt.Errorf("archive.queue %q is not supported", c.Archive.Queue)
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
