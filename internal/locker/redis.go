package locker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only if we still own it, so a holder that
// outlived its TTL cannot release somebody else's lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client, logger: slog.Default()}
}

func (l *RedisLocker) SetLogger(logger *slog.Logger) { l.logger = logger }

func (l *RedisLocker) WithLease(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrBusy
	}

	defer func() {
		// Release with a fresh context: the request context may already be
		// cancelled and the lease must not linger for a full TTL.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("lease release failed, will expire by ttl", "key", key, "err", err)
		}
	}()

	return fn(ctx)
}
