package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
)

// RedisQueue pushes notifications onto a Redis list so any instance can
// deliver them.
type RedisQueue struct {
	client  *redis.Client
	key     string
	sender  Sender
	log     *zap.Logger
	metrics *metrics.Metrics

	pollTimeout time.Duration
}

func NewRedisQueue(client *redis.Client, key string, sender Sender, log *zap.Logger, m *metrics.Metrics) *RedisQueue {
	return &RedisQueue{
		client:      client,
		key:         key,
		sender:      sender,
		log:         log,
		metrics:     m,
		pollTimeout: time.Second,
	}
}

func (q *RedisQueue) Dispatch(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		q.metrics.Notification("dropped")
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Run delivers queued notifications until ctx is cancelled.
func (q *RedisQueue) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			q.log.Warn("notification pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(q.pollTimeout):
			}
			continue
		}

		// BRPOP answers [key, value]
		if len(res) != 2 {
			continue
		}

		var n Notification
		if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
			q.log.Warn("discarding malformed notification", zap.Error(err))
			continue
		}
		deliver(q.sender, q.log, q.metrics, n)
	}
}
