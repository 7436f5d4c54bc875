package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kls/internal/core/kvstore"
	"kls/internal/infrastructure/storage/codec"
)

// TableName is the table holding the snapshots.
const TableName = "kv_store"

const (
	encodingJSON = "json"
	encodingZstd = "zstd"
)

// KVStore implements kvstore.Store on the kv_store table. Calls made with a
// ctx that carries a transaction (see TxManager) run inside it.
type KVStore struct {
	pool *Pool
	txm  *TxManager
}

// NewKVStore creates a store sharing txm's transactions.
func NewKVStore(pool *Pool, txm *TxManager) *KVStore {
	return &KVStore{pool: pool, txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func getQuery(key string) squirrel.SelectBuilder {
	return Builder().
		Select("value").
		From(TableName).
		Where(squirrel.Eq{"key": key})
}

func putQuery(key string, value []byte, now time.Time) squirrel.InsertBuilder {
	encoding := encodingJSON
	if codec.IsCompressed(value) {
		encoding = encodingZstd
	}
	return Builder().
		Insert(TableName).
		Columns("key", "value", "encoding", "updated_at").
		Values(key, value, encoding, now).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, encoding = EXCLUDED.encoding, updated_at = EXCLUDED.updated_at")
}

func deleteQuery(key string) squirrel.DeleteBuilder {
	return Builder().
		Delete(TableName).
		Where(squirrel.Eq{"key": key})
}

func keysQuery(prefix string) squirrel.SelectBuilder {
	q := Builder().
		Select("key").
		From(TableName).
		OrderBy("key")
	if prefix != "" {
		q = q.Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Get implements kvstore.Store.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	sql, args, err := getQuery(key).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte
	if err := pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &value, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, kvstore.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put implements kvstore.Store.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	sql, args, err := putQuery(key, value, time.Now().UTC()).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete implements kvstore.Store. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	sql, args, err := deleteQuery(key).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys implements kvstore.Store.
func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	sql, args, err := keysQuery(prefix).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build key scan: %w", err)
	}

	keys := []string{}
	if err := pgxscan.Select(ctx, s.txm.GetQuerier(ctx), &keys, sql, args...); err != nil {
		return nil, fmt.Errorf("list keys %q: %w", prefix, err)
	}
	return keys, nil
}

// Ping implements kvstore.Pinger.
func (s *KVStore) Ping(ctx context.Context) error {
	if s.pool == nil || s.pool.Pool == nil {
		return errors.New("postgres pool is not initialized")
	}
	return s.pool.Ping(ctx)
}

var (
	_ kvstore.Store  = (*KVStore)(nil)
	_ kvstore.Pinger = (*KVStore)(nil)
)
