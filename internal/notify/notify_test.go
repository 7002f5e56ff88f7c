package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pagure/internal/notify"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	name  string
	err   error
	panic bool

	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Notify(_ context.Context, msg notify.Message) error {
	if r.panic {
		panic("boom")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) received() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

type closer struct {
	recorder
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestDispatcher_DeliversToAll(t *testing.T) {
	a := &recorder{name: "a"}
	b := &recorder{name: "b"}
	d := notify.NewDispatcher(zap.NewNop(), time.Second, a, b)

	d.Dispatch(notify.TopicPRClosed, map[string]any{"pull_request": "42", "merged": true})
	require.NoError(t, d.Close())

	for _, r := range []*recorder{a, b} {
		msgs := r.received()
		require.Len(t, msgs, 1)
		require.Equal(t, notify.TopicPRClosed, msgs[0].Topic)
		require.NotEmpty(t, msgs[0].ID)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
		require.Equal(t, true, payload["merged"])
	}
}

func TestDispatcher_IsolatesFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	failing := &recorder{name: "failing", err: errors.New("unreachable")}
	panicking := &recorder{name: "panicking", panic: true}
	healthy := &recorder{name: "healthy"}
	d := notify.NewDispatcher(zap.New(core), time.Second, failing, panicking, healthy)

	d.Dispatch(notify.TopicPRNew, map[string]string{"id": "1"})
	d.Dispatch(notify.TopicPRComment, map[string]string{"id": "1"})
	require.NoError(t, d.Close())

	require.Len(t, healthy.received(), 2)
	require.Equal(t, 2, logs.FilterMessage("failed to send notification").Len())
	require.Equal(t, 2, logs.FilterMessage("notifier panicked").Len())
}

func TestDispatcher_Close(t *testing.T) {
	c := &closer{recorder: recorder{name: "conn"}}
	d := notify.NewDispatcher(zap.NewNop(), time.Second, c)

	require.NoError(t, d.Close())
	require.True(t, c.closed)

	d.Dispatch(notify.TopicPRNew, map[string]string{"id": "1"})
	require.Empty(t, c.received())
}
