// Package store persists board marked state between runs.
//
// Backends implement [Store]:
//   - null: discards everything (persistence disabled)
//   - memory: in-process map, for tests and single-run use
//   - file: one JSON file per board key (CLI default)
//   - redis: one JSON string per key, for shared deployments
//   - mongo: one document per key in a "boards" collection
//
// [Open] builds a backend from a [Config] and wraps it so that every load
// and save is reported to observability.Store(). A [Persister] decouples
// writes from the toggle path: the board notifies it after each flip and a
// background goroutine snapshots the board and saves it.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// Store is the interface for board state backends.
type Store interface {
	// Load returns the state saved under key, or nil, nil when there is none.
	Load(ctx context.Context, key string) (*board.State, error)

	// Save replaces the state under key.
	Save(ctx context.Context, key string, s board.State) error

	// Delete removes the state under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Name returns the backend name, e.g. "file".
	Name() string

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`

	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultKey is the board key used when none is configured.
const DefaultKey = "default"

// SetDefaults fills empty fields with defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendNone
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "gridboard"
	}
}

// Validate checks the backend name and key.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Backend)
	}
	return errors.ValidateBoardKey(c.Key)
}

// Open creates the configured backend. The file backend needs Dir; callers
// usually resolve it to the XDG state directory first.
func Open(ctx context.Context, cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendNone:
		return NewNullStore(), nil
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Store
}

// Instrument wraps s so loads and saves are reported to observability.Store().
func Instrument(s Store) Store {
	if _, ok := s.(instrumented); ok {
		return s
	}
	return instrumented{Store: s}
}

func (i instrumented) Load(ctx context.Context, key string) (*board.State, error) {
	start := time.Now()
	st, err := i.Store.Load(ctx, key)
	observability.Store().OnLoad(ctx, i.Name(), key, st != nil, time.Since(start), err)
	return st, err
}

func (i instrumented) Save(ctx context.Context, key string, s board.State) error {
	start := time.Now()
	err := i.Store.Save(ctx, key, s)
	observability.Store().OnSave(ctx, i.Name(), key, time.Since(start), err)
	return err
}
