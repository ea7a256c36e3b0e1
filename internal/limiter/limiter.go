package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a sliding-window rate limiter over Redis, used to throttle
// operator-triggered dispatch requests. Each window member is a unique
// request id scored by its timestamp; a Lua script atomically expires old
// entries, checks the count, and admits or rejects the request.
type Limiter struct {
	redisClient *redis.Client
	logger      *slog.Logger
	script      *redis.Script
}

// 1. Remove entries older than the window
// 2. Count remaining entries
// 3. Under the limit: add a new entry and return 1 (allowed)
// 4. At/over the limit: return 0 (denied)
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, member)
    redis.call('EXPIRE', key, window / 1000 + 1)
    return 1
else
    return 0
end
`)

func New(redisClient *redis.Client, logger *slog.Logger) *Limiter {
	return &Limiter{
		redisClient: redisClient,
		logger:      logger,
		script:      slidingWindowScript,
	}
}

func limiterKey(scope string) string {
	return fmt.Sprintf("throttle:%s", scope)
}

// Allow reports whether another request in this scope fits inside the
// one-second window. A limit of zero disables throttling, and Redis errors
// fail open so a cache outage cannot block dispatch.
func (l *Limiter) Allow(ctx context.Context, scope string, limit int) bool {
	if limit <= 0 {
		return true
	}

	key := limiterKey(scope)
	now := time.Now().UnixMilli()
	window := int64(1000)
	member := fmt.Sprintf("%d:%d", now, time.Now().UnixNano()%10000)

	result, err := l.script.Run(ctx, l.redisClient, []string{key},
		now, window, limit, member,
	).Int64()
	if err != nil {
		l.logger.Error("rate limiter script failed", "error", err, "scope", scope)
		return true
	}

	if result == 0 {
		l.logger.Debug("request throttled", "scope", scope, "limit", limit)
		return false
	}

	return true
}
