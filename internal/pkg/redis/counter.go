package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss 缓存未命中，调用方应回源数据库
var ErrMiss = errors.New("counter cache miss")

// Counter 点赞数、评论数等计数缓存
type Counter interface {
	Get(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error
	// IncrBy key 不存在时不做任何事
	IncrBy(ctx context.Context, key string, delta int64) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCounter struct {
	rdb *redis.Client
}

func NewCounter(rdb *redis.Client) Counter {
	if rdb == nil {
		return NopCounter{}
	}
	return &redisCounter{rdb: rdb}
}

func (s *redisCounter) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	return v, err
}

func (s *redisCounter) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisCounter) IncrBy(ctx context.Context, key string, delta int64) error {
	err := incrIfExistsScript.Run(ctx, s.rdb, []string{key}, delta).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (s *redisCounter) Delete(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

// NopCounter 未配置 redis 时使用，始终未命中
type NopCounter struct{}

func (NopCounter) Get(context.Context, string) (int64, error) { return 0, ErrMiss }

func (NopCounter) Set(context.Context, string, int64, time.Duration) error { return nil }

func (NopCounter) IncrBy(context.Context, string, int64) error { return nil }

func (NopCounter) Delete(context.Context, ...string) error { return nil }
