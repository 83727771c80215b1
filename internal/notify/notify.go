// Package notify delivers short text notifications (SMS) off the request
// path. Dispatch only enqueues; delivery failures are logged and counted.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
)

const sendTimeout = 10 * time.Second

type Notification struct {
	To   string `json:"to"`
	Body string `json:"body"`
	Kind string `json:"kind"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

type Sender interface {
	Send(ctx context.Context, n Notification) error
}

func deliver(sender Sender, log *zap.Logger, m *metrics.Metrics, n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := sender.Send(ctx, n); err != nil {
		m.Notification("failed")
		log.Warn("notification failed",
			zap.String("kind", n.Kind),
			zap.String("to", mask(n.To)),
			zap.Error(err),
		)
		return
	}
	m.Notification("sent")
}

// mask keeps the last four digits of a phone number for logs.
func mask(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

// LogSender writes notifications to the log instead of sending them. It is
// used when no SMS provider is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n Notification) error {
	s.log.Info("notification",
		zap.String("kind", n.Kind),
		zap.String("to", mask(n.To)),
		zap.String("body", n.Body),
	)
	return nil
}
