// Package storage opens the key-value backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/vytor/linkpuzzle/internal/config"
	"github.com/vytor/linkpuzzle/internal/db"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/repository"
	"github.com/vytor/linkpuzzle/internal/repository/file"
	"github.com/vytor/linkpuzzle/internal/repository/memory"
	"github.com/vytor/linkpuzzle/internal/repository/redis"
	"github.com/vytor/linkpuzzle/internal/repository/sqlite"
)

// Backend is an open key-value store plus its lifecycle hooks.
type Backend struct {
	repository.KeyValueStore
	Name  string
	close func() error
	ping  func(ctx context.Context) error
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Ping reports whether the backend is usable.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Open connects to cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	log := logger.FromContext(ctx).WithPrefix("storage")

	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Debug("using in-memory store")
		return &Backend{KeyValueStore: memory.New(), Name: cfg.StoreBackend}, nil

	case config.BackendFile:
		s, err := file.New(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		log.Debug("using file store at %s", cfg.StorePath)
		return &Backend{KeyValueStore: s, Name: cfg.StoreBackend}, nil

	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Backend{
			KeyValueStore: sqlite.NewKeyValueRepository(database.DB),
			Name:          cfg.StoreBackend,
			close:         database.Close,
			ping:          database.PingContext,
		}, nil

	case config.BackendRedis:
		s, err := redis.New(ctx, cfg.RedisURL, redis.WithNamespace(cfg.RedisNamespace), redis.WithTTL(cfg.RedisTTL))
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return &Backend{KeyValueStore: s, Name: cfg.StoreBackend, close: s.Close, ping: s.Ping}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
