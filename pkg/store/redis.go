package store

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gridshift/pkg/errors"
)

const (
	redisPagePrefix = "gridshift:page:"
	redisIndexKey   = "gridshift:pages"
)

// RedisConfig configures a Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL expires pages that are not rewritten. Zero keeps them forever.
	TTL time.Duration
}

// Redis stores pages as string values plus a set of known page IDs.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and checks the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable(BackendRedis, err)
	}
	return &Redis{client: client, ttl: cfg.TTL}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisPagePrefix+id).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, unavailable(BackendRedis, err)
	}
	return data, nil
}

func (s *Redis) Put(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidatePageID(id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPagePrefix+id, data, s.ttl)
		pipe.SAdd(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return unavailable(BackendRedis, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisPagePrefix+id)
		pipe.SRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return unavailable(BackendRedis, err)
	}
	return nil
}

// List returns the indexed page IDs. IDs whose page has expired are pruned
// from the index as they are found.
func (s *Redis) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, unavailable(BackendRedis, err)
	}
	live := ids[:0]
	for _, id := range ids {
		n, err := s.client.Exists(ctx, redisPagePrefix+id).Result()
		if err != nil {
			return nil, unavailable(BackendRedis, err)
		}
		if n == 0 {
			s.client.SRem(ctx, redisIndexKey, id)
			continue
		}
		live = append(live, id)
	}
	sort.Strings(live)
	return live, nil
}

func (s *Redis) Close() error { return s.client.Close() }

var _ Store = (*Redis)(nil)
