package structcache

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/StructAlign/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// RedisConfig mirrors the cache section of the application configuration.
type RedisConfig struct {
	Mode          string        `mapstructure:"mode"` // standalone, sentinel, cluster
	Addr          string        `mapstructure:"addr"`
	MasterName    string        `mapstructure:"master_name"`
	SentinelAddrs []string      `mapstructure:"sentinel_addrs"`
	ClusterAddrs  []string      `mapstructure:"cluster_addrs"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	PoolSize      int           `mapstructure:"pool_size"`
	MinIdleConns  int           `mapstructure:"min_idle_conns"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// NewRedisClient connects according to cfg and pings the server before
// returning.  The mode selects between standalone, sentinel and cluster
// deployments; anything unrecognized falls back to standalone.
func NewRedisClient(cfg *RedisConfig, log logging.Logger) (redis.UniversalClient, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyRedisDefaults(cfg)

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case "cluster":
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.ClusterAddrs,
			Username:     cfg.Username,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	case "sentinel":
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.SentinelAddrs,
			Username:      cfg.Username,
			Password:      cfg.Password,
			DB:            cfg.DB,
			PoolSize:      cfg.PoolSize,
			MinIdleConns:  cfg.MinIdleConns,
			DialTimeout:   cfg.DialTimeout,
			ReadTimeout:   cfg.ReadTimeout,
			WriteTimeout:  cfg.WriteTimeout,
		})
	default:
		if cfg.Mode != "" && cfg.Mode != "standalone" {
			log.Warn("invalid redis mode, defaulting to standalone", logging.String("mode", cfg.Mode))
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.New(errors.ErrCodeCacheError, "redis connection failed").WithCause(err)
	}

	log.Info("structure cache connected",
		logging.String("mode", cfg.Mode),
		logging.String("addr", cfg.Addr),
	)
	return rdb, nil
}

func applyRedisDefaults(cfg *RedisConfig) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = 2
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "structalign:structure:"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 15 * time.Minute
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Read-through provider
// ─────────────────────────────────────────────────────────────────────────────

// RedisProvider is a read-through cache in front of another Provider.  Cache
// trouble never fails a resolution: a corrupt entry is dropped and reloaded,
// an unreachable server degrades to the inner provider.  Concurrent misses
// for the same identifier collapse into a single load.
type RedisProvider struct {
	client  redis.UniversalClient
	inner   structure.Provider
	log     logging.Logger
	metrics *metrics.AlignMetrics
	prefix  string
	ttl     time.Duration
	group   singleflight.Group
}

type RedisProviderOption func(*RedisProvider)

func WithKeyPrefix(prefix string) RedisProviderOption {
	return func(p *RedisProvider) { p.prefix = prefix }
}

func WithTTL(ttl time.Duration) RedisProviderOption {
	return func(p *RedisProvider) { p.ttl = ttl }
}

func WithMetrics(m *metrics.AlignMetrics) RedisProviderOption {
	return func(p *RedisProvider) {
		if m != nil {
			p.metrics = m
		}
	}
}

func NewRedisProvider(client redis.UniversalClient, inner structure.Provider, log logging.Logger, opts ...RedisProviderOption) *RedisProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &RedisProvider{
		client:  client,
		inner:   inner,
		log:     log.Named("structcache"),
		metrics: metrics.NewNopMetrics(),
		prefix:  "structalign:structure:",
		ttl:     15 * time.Minute,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve implements structure.Provider.
func (p *RedisProvider) Resolve(ctx context.Context, id structure.StructureID) (structure.AtomArray, error) {
	key := p.prefix + id.String()

	data, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var arr structure.AtomArray
		if jsonErr := json.Unmarshal(data, &arr); jsonErr == nil {
			p.metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
			return arr, nil
		}
		p.log.Warn("dropping corrupt cache entry", logging.String("key", key))
		p.client.Del(ctx, key)
	case err == redis.Nil:
		// miss
	default:
		p.log.Warn("structure cache unavailable, resolving directly", logging.Err(err))
		return p.inner.Resolve(ctx, id)
	}

	p.metrics.CacheMissesTotal.WithLabelValues("redis").Inc()
	return p.loadAndStore(ctx, id, key)
}

func (p *RedisProvider) loadAndStore(ctx context.Context, id structure.StructureID, key string) (structure.AtomArray, error) {
	v, err, _ := p.group.Do(id.String(), func() (interface{}, error) {
		arr, err := p.inner.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}

		data, jsonErr := json.Marshal(arr)
		if jsonErr != nil {
			p.log.Warn("failed to encode structure for cache", logging.String("key", key), logging.Err(jsonErr))
			return arr, nil
		}
		if setErr := p.client.Set(ctx, key, data, jitterTTL(p.ttl)).Err(); setErr != nil {
			p.log.Warn("failed to populate structure cache", logging.String("key", key), logging.Err(setErr))
		}
		return arr, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(structure.AtomArray), nil
}

// jitterTTL spreads expiry by +/-10% so entries written together do not all
// expire together.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}
