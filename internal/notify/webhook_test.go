package notify_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pagure/internal/notify"

	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier(t *testing.T) {
	var (
		gotTopic     string
		gotSignature string
		gotBody      []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTopic = r.Header.Get("X-Pagure-Topic")
		gotSignature = r.Header.Get("X-Pagure-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL, "s3cret", srv.Client())
	msg := notify.Message{
		ID:        "m1",
		Topic:     notify.TopicPRClosed,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Payload:   json.RawMessage(`{"merged":true}`),
	}

	require.NoError(t, n.Notify(t.Context(), msg))
	require.Equal(t, notify.TopicPRClosed, gotTopic)
	require.Equal(t, notify.Sign([]byte("s3cret"), gotBody), gotSignature)

	var decoded notify.Message
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	require.Equal(t, "m1", decoded.ID)
	require.JSONEq(t, `{"merged":true}`, string(decoded.Payload))
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL, "", srv.Client())
	err := n.Notify(t.Context(), notify.Message{Topic: notify.TopicPRNew, Payload: json.RawMessage(`{}`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}
