package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for lock")

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a lock as a key with a TTL so a crashed holder cannot
// block a contractor forever.
type RedisLocker struct {
	client *redis.Client
	log    *zap.Logger

	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		log:    log,
		prefix: "lock:",
		ttl:    10 * time.Second,
		wait:   5 * time.Second,
		retry:  25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	k := l.prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, k, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}

	return func() {
		// the request context may already be cancelled
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(rctx, l.client, []string{k}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warn("redis unlock failed", zap.String("key", k), zap.Error(err))
		}
	}, nil
}
