package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// redisKeyPrefix namespaces board keys in a shared Redis database.
const redisKeyPrefix = "gridboard:board:"

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// redisClient is the subset of redis.Cmdable the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisStore keeps each board's state as a JSON string.
type RedisStore struct {
	client redisClient
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(key string) string { return redisKeyPrefix + key }

func (s *RedisStore) Load(ctx context.Context, key string) (*board.State, error) {
	data, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "redis get %s", key)
	}

	var st board.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse state %s", key)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, st board.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal state %s", key)
	}
	if err := s.client.Set(ctx, redisKey(key), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis set %s", key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis del %s", key)
	}
	return nil
}

func (s *RedisStore) Name() string { return BackendRedis }

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
