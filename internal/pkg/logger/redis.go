package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoggerHook 记录 redis 错误与慢命令，正常命令不打日志
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger(slow time.Duration) *RedisLoggerHook {
	if slow <= 0 {
		slow = 100 * time.Millisecond
	}
	return &RedisLoggerHook{slow: slow}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		s.report(ctx, cmd.Name(), commandArgs(cmd), 1, time.Since(start), err)
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		s.report(ctx, "pipeline", "", len(cmds), time.Since(start), err)
		return err
	}
}

func (s *RedisLoggerHook) report(ctx context.Context, name, args string, count int, elapsed time.Duration, err error) {
	fields := []any{
		log.String("command", name),
		log.Int("cmd_count", count),
		log.Duration("latency", elapsed),
	}
	if args != "" {
		fields = append(fields, log.String("args", args))
	}
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
	case elapsed > s.slow:
		log.WarnContext(ctx, "Redis Slow", fields...)
	}
}

func commandArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	return fmt.Sprint(cmd.Args())
}
