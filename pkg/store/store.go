// Package store persists page documents.
//
// A [Store] maps page IDs to opaque encoded pages. Backends:
//   - [Memory]: in-process map, for tests and the HTTP server's scratch pages
//   - [Disk]: diskv-backed files for the CLI
//   - [Redis]: shared storage for multi-instance servers
//   - [Mongo]: document storage with page metadata
//   - [Null]: discards writes when persistence is disabled
//
// Use [Open] to construct a backend from configuration. Every backend
// returned by Open reports hits, misses and writes to
// [observability.Store].
package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/observability"
)

// ErrNotFound is wrapped by every lookup of a missing page.
var ErrNotFound = stderrors.New("page not found")

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodePageNotFound, ErrNotFound, "page %q", id)
}

func unavailable(backend string, err error) error {
	return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "%s store", backend)
}

// Store is the interface for page storage backends.
type Store interface {
	// Get returns the encoded page. Missing pages yield an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Put stores the encoded page, replacing any previous version.
	Put(ctx context.Context, id string, data []byte) error

	// Delete removes a page. Deleting a missing page is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every page ID in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// instrumented reports store traffic to the observability hooks.
type instrumented struct {
	Store
	backend string
}

// WithHooks wraps s so its traffic is reported under the given backend name.
func WithHooks(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.Store.Get(ctx, id)
	switch {
	case err == nil:
		observability.Store().OnStoreHit(ctx, s.backend)
	case stderrors.Is(err, ErrNotFound):
		observability.Store().OnStoreMiss(ctx, s.backend)
	}
	return data, err
}

func (s *instrumented) Put(ctx context.Context, id string, data []byte) error {
	if err := s.Store.Put(ctx, id, data); err != nil {
		return err
	}
	observability.Store().OnStoreSet(ctx, s.backend, len(data))
	return nil
}

// Config selects and configures a backend.
type Config struct {
	Backend string `mapstructure:"backend" toml:"backend"`

	// Path is the diskv base directory.
	Path string `mapstructure:"path" toml:"path"`

	RedisAddr     string        `mapstructure:"redis_addr" toml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" toml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" toml:"redis_db"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl" toml:"redis_ttl"`

	MongoURI        string `mapstructure:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database" toml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" toml:"mongo_collection"`
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendDisk   = "disk"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "none"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendDisk, BackendMemory, BackendRedis, BackendMongo, BackendNull}

// Open constructs the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var s Store
	var err error
	switch cfg.Backend {
	case BackendMemory:
		s = NewMemory()
	case BackendDisk, "":
		s, err = NewDisk(cfg.Path)
	case BackendRedis:
		s, err = NewRedis(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, TTL: cfg.RedisTTL})
	case BackendMongo:
		s, err = NewMongo(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	case BackendNull:
		s = NewNull()
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	name := cfg.Backend
	if name == "" {
		name = BackendDisk
	}
	return WithHooks(s, name), nil
}
