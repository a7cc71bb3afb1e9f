// Package redis implements Redis caching for EduGuard Core. Cohort
// statistics are expensive to recompute on every dashboard refresh, so
// the aggregated result is cached with a short TTL. The cache is a pure
// accelerator: any Redis failure degrades to a recompute, never to an
// error visible to the caller.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduguard-hub/eduguard-core/internal/application/query"
	"github.com/eduguard-hub/eduguard-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration

	// StatsTTL is how long a cached cohort snapshot stays fresh.
	StatsTTL time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		StatsTTL:     5 * time.Minute,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCacheConnection is returned when the Redis connection fails.
	ErrCacheConnection = errors.New("cache: connection failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache caches cohort statistics snapshots in Redis. Implements
// query.StatsCache.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewStatsCache creates a stats cache and verifies the connection.
func NewStatsCache(cfg Config, log *logger.Logger) (*StatsCache, error) {
	if log == nil {
		log = logger.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	ttl := cfg.StatsTTL
	if ttl <= 0 {
		ttl = DefaultConfig().StatsTTL
	}

	return &StatsCache{client: client, ttl: ttl, log: log}, nil
}

// GetStats returns a cached snapshot, or a miss. Redis errors are logged
// and reported as a miss so the caller recomputes.
func (c *StatsCache) GetStats(ctx context.Context, key string) (*query.GetCohortStatsResult, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("stats cache read failed", logger.Err(err), logger.String("key", key))
		}
		return nil, false
	}

	var result query.GetCohortStatsResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Warn("stats cache entry corrupt, dropping", logger.Err(err), logger.String("key", key))
		_ = c.client.Del(ctx, key).Err()
		return nil, false
	}
	return &result, true
}

// SetStats stores a snapshot with the configured TTL. Write failures are
// logged and otherwise ignored.
func (c *StatsCache) SetStats(ctx context.Context, key string, result *query.GetCohortStatsResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("stats cache serialization failed", logger.Err(err), logger.String("key", key))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("stats cache write failed", logger.Err(err), logger.String("key", key))
	}
}

// Invalidate drops a cached snapshot, for use after roster changes.
func (c *StatsCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("stats cache invalidation failed", logger.Err(err), logger.String("key", key))
	}
}

// Ping checks if Redis is reachable.
func (c *StatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *StatsCache) Close() error {
	return c.client.Close()
}
