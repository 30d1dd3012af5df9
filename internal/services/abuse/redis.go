package abuse

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partypop/partypop/internal/model"
)

// RedisConfig holds configuration for the Redis abuse store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// RedisStore is a Redis-backed implementation of the abuse store. Reports
// and blocks outlive individual rooms, so they get a shared backing store
// even though room state itself stays in memory.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client (for testing).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func reportsKey() string {
	return "abuse:reports"
}

func blocksKey(blocker model.PlayerID) string {
	return "abuse:blocks:" + string(blocker)
}

func (s *RedisStore) AddReport(ctx context.Context, report Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, reportsKey(), data).Err()
}

func (s *RedisStore) AddBlock(ctx context.Context, blocker, target model.PlayerID) error {
	return s.client.SAdd(ctx, blocksKey(blocker), string(target)).Err()
}

func (s *RedisStore) IsBlocked(ctx context.Context, blocker, target model.PlayerID) (bool, error) {
	return s.client.SIsMember(ctx, blocksKey(blocker), string(target)).Result()
}
