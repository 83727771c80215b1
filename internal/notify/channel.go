package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
)

// ChannelQueue delivers from a buffered channel in a single goroutine.
type ChannelQueue struct {
	sender  Sender
	log     *zap.Logger
	metrics *metrics.Metrics

	queue chan Notification
	done  chan struct{}
	once  sync.Once
}

func NewChannelQueue(sender Sender, log *zap.Logger, m *metrics.Metrics, size int) *ChannelQueue {
	if size <= 0 {
		size = 100
	}
	q := &ChannelQueue{
		sender:  sender,
		log:     log,
		metrics: m,
		queue:   make(chan Notification, size),
		done:    make(chan struct{}),
	}

	go q.worker()
	return q
}

func (q *ChannelQueue) worker() {
	defer close(q.done)
	for n := range q.queue {
		deliver(q.sender, q.log, q.metrics, n)
	}
}

// Dispatch never blocks. A full queue drops the notification.
func (q *ChannelQueue) Dispatch(_ context.Context, n Notification) error {
	select {
	case q.queue <- n:
	default:
		q.metrics.Notification("dropped")
		q.log.Warn("notification queue full, dropping", zap.String("kind", n.Kind))
	}
	return nil
}

// Close drains pending notifications and stops the worker.
func (q *ChannelQueue) Close() {
	q.once.Do(func() { close(q.queue) })
	<-q.done
}
