package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type kvRepository struct {
	db *sql.DB
}

// NewKeyValueRepository stores values in the kv_store table.
func NewKeyValueRepository(db *sql.DB) repository.KeyValueStore {
	return &kvRepository{db: db}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	query, args, err := sqlBuilder.
		Select("value").
		From("kv_store").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key %s not found", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	query, args, err := sqlBuilder.
		Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	log.Debug("stored key %s (%d bytes)", key, len(value))
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.
		Delete("kv_store").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
