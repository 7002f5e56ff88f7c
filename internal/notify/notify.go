// Package notify fans pull request events out to the configured sinks.
//
// Dispatch never blocks the caller: every event is delivered in the
// background, each notifier runs concurrently and a failing or panicking
// notifier is logged without affecting the others.
package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	TopicPRNew       = "pull-request.new"
	TopicPRClosed    = "pull-request.closed"
	TopicPRComment   = "pull-request.comment.added"
	TopicPRAssigned  = "pull-request.assigned.added"
	TopicPRFlagAdded = "pull-request.flag.added"
)

const defaultTimeout = 10 * time.Second

// Message is one event as handed to every notifier.
type Message struct {
	ID        string          `json:"msg_id"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"msg"`
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	log       *zap.Logger

	mu       sync.RWMutex
	closed   bool
	inflight conc.WaitGroup
}

func NewDispatcher(log *zap.Logger, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		notifiers: notifiers,
		timeout:   timeout,
		log:       log,
	}
}

// Dispatch queues payload for delivery under topic and returns immediately.
func (d *Dispatcher) Dispatch(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.log.Error("failed to encode notification",
			zap.Error(err),
			zap.String("topic", topic),
		)
		return
	}

	msg := Message{
		ID:        uuid.NewString(),
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Payload:   body,
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("dispatcher closed, notification dropped",
			zap.String("topic", topic),
		)
		return
	}

	d.inflight.Go(func() {
		d.deliver(msg)
	})
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var wg conc.WaitGroup
	for _, n := range d.notifiers {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.Error("notifier panicked",
						zap.String("notifier", n.Name()),
						zap.String("topic", msg.Topic),
						zap.Any("panic", r),
					)
				}
			}()

			if err := n.Notify(ctx, msg); err != nil {
				d.log.Error("failed to send notification",
					zap.Error(err),
					zap.String("notifier", n.Name()),
					zap.String("topic", msg.Topic),
				)
			}
		})
	}
	wg.Wait()
}

// Close waits for queued deliveries, then closes notifiers holding connections.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.inflight.Wait()

	var firstErr error
	for _, n := range d.notifiers {
		c, ok := n.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			d.log.Error("failed to close notifier",
				zap.Error(err),
				zap.String("notifier", n.Name()),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
