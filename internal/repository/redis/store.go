package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/repository"
)

// Store keeps values in Redis under a namespace prefix.
type Store struct {
	client    *goredis.Client
	namespace string
	ttl       time.Duration
}

var _ repository.KeyValueStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithNamespace prefixes every key, e.g. per user.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		s.namespace = ns
	}
}

// WithTTL expires stored keys. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New connects to rawURL and verifies the connection with PING.
func New(ctx context.Context, rawURL string, opts ...Option) (*Store, error) {
	redisOpts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Default().WithPrefix("redis_store").Info("connected to redis at %s", redisOpts.Addr)
	return NewWithClient(client, opts...), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("redis_store").Error("get %s failed: %v", key, err)
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("redis_store").Error("set %s failed: %v", key, err)
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks that the server answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
