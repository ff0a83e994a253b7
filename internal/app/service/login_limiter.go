package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	loginFailUserPrefix = "login:fail:username:"
	loginFailIPPrefix   = "login:fail:ip:"
)

// LoginLimiter counts failed logins per username and client IP in redis.
// Redis trouble fails open: a broken limiter must never lock users out.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, limit: limit, window: window, logger: logger}
}

func (l *LoginLimiter) TooManyFailures(ctx context.Context, username, clientIP string) bool {
	if l.limit <= 0 {
		return false
	}
	if l.failCount(ctx, loginFailUserPrefix+username) >= l.limit {
		return true
	}
	return clientIP != "" && l.failCount(ctx, loginFailIPPrefix+clientIP) >= l.limit
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, username, clientIP string) {
	l.incrementFailKey(ctx, loginFailUserPrefix+username)
	if clientIP != "" {
		l.incrementFailKey(ctx, loginFailIPPrefix+clientIP)
	}
}

func (l *LoginLimiter) Clear(ctx context.Context, username, clientIP string) {
	keys := []string{loginFailUserPrefix + username}
	if clientIP != "" {
		keys = append(keys, loginFailIPPrefix+clientIP)
	}
	if err := l.rdb.Del(ctx, keys...).Err(); err != nil {
		l.logger.Warn("clear login fail counters failed", zap.Error(err))
	}
}

func (l *LoginLimiter) failCount(ctx context.Context, key string) int {
	count, err := l.rdb.Get(ctx, key).Int()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("get login fail counter failed", zap.String("key", key), zap.Error(err))
		}
		return 0
	}
	return count
}

func (l *LoginLimiter) incrementFailKey(ctx context.Context, key string) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("increment login fail counter failed", zap.String("key", key), zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("set login fail counter ttl failed", zap.String("key", key), zap.Error(err))
		}
	}
}
