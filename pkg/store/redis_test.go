package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// fakeRedis is an in-memory redisClient.
type fakeRedis struct {
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: make(map[string]string)} }

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStore(t *testing.T) {
	exerciseStore(t, &RedisStore{client: newFakeRedis()})
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	f := newFakeRedis()
	s := &RedisStore{client: f}
	if err := s.Save(context.Background(), "night", sampleState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := f.data["gridboard:board:night"]; !ok {
		t.Errorf("keys = %v, want gridboard:board:night", f.data)
	}
}

func TestRedisStoreErrors(t *testing.T) {
	f := newFakeRedis()
	f.err = stderrors.New("connection refused")
	s := &RedisStore{client: f}
	ctx := context.Background()

	if _, err := s.Load(ctx, "k"); !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("Load error = %v, want %s", err, errors.ErrCodeStore)
	}
	if err := s.Save(ctx, "k", sampleState()); !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("Save error = %v, want %s", err, errors.ErrCodeStore)
	}
}

func TestRedisStoreCorruptValue(t *testing.T) {
	f := newFakeRedis()
	f.data[redisKey("k")] = "not json"
	s := &RedisStore{client: f}

	if _, err := s.Load(context.Background(), "k"); !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("Load error = %v, want %s", err, errors.ErrCodeStore)
	}
}
