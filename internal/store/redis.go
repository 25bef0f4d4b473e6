package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each key as a hash with two fields: data (the JSON payload)
// and version. Writes run inside WATCH/MULTI so a concurrent writer turns
// into ErrVersionConflict instead of a silent overwrite.
type RedisKV struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisKV wraps an existing client. prefix namespaces all keys
// ("fm" turns "crops" into "fm:crops"); empty means no prefix.
func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	return &RedisKV{rdb: rdb, prefix: prefix}
}

func (r *RedisKV) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, int64, error) {
	vals, err := r.rdb.HMGet(ctx, r.key(key), "data", "version").Result()
	if err != nil {
		return nil, 0, err
	}
	if len(vals) != 2 || vals[0] == nil {
		return nil, 0, nil
	}
	data, _ := vals[0].(string)
	var version int64
	if s, ok := vals[1].(string); ok {
		version, _ = strconv.ParseInt(s, 10, 64)
	}
	return []byte(data), version, nil
}

func (r *RedisKV) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	k := r.key(key)
	var next int64
	txf := func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, k, "version").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != expected {
			return ErrVersionConflict
		}
		next = cur + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, "data", value, "version", next)
			return nil
		})
		return err
	}
	err := r.rdb.Watch(ctx, txf, k)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}
