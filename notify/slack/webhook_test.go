package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/bookdigest/digest"
	"github.com/poiesic/bookdigest/notify"
	"github.com/poiesic/bookdigest/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Text   string           `json:"text"`
	Blocks []map[string]any `json:"blocks"`
}

func fastRetry() Option {
	return WithRetry(retry.Policy{MaxRetries: 2, BaseDelay: time.Millisecond})
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestWebhook_Send(t *testing.T) {
	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook, err := New(server.URL, WithHTTPClient(server.Client()), fastRetry())
	require.NoError(t, err)

	msg := notify.Message{
		Text: "fallback",
		Blocks: []digest.Block{
			digest.Header("Title"),
			digest.Context("counts"),
			digest.Divider(),
			digest.Section("*bold*"),
		},
	}
	require.NoError(t, hook.Send(context.Background(), msg))

	assert.Equal(t, "fallback", got.Text)
	require.Len(t, got.Blocks, 4)

	assert.Equal(t, "header", got.Blocks[0]["type"])
	header := got.Blocks[0]["text"].(map[string]any)
	assert.Equal(t, "plain_text", header["type"])
	assert.Equal(t, "Title", header["text"])

	assert.Equal(t, "context", got.Blocks[1]["type"])
	elements := got.Blocks[1]["elements"].([]any)
	require.Len(t, elements, 1)
	assert.Equal(t, "counts", elements[0].(map[string]any)["text"])

	assert.Equal(t, "divider", got.Blocks[2]["type"])

	assert.Equal(t, "section", got.Blocks[3]["type"])
	section := got.Blocks[3]["text"].(map[string]any)
	assert.Equal(t, "mrkdwn", section["type"])
	assert.Equal(t, "*bold*", section["text"])
}

func TestWebhook_TextOnly(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
	}))
	defer server.Close()

	hook, err := New(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	require.NoError(t, hook.Send(context.Background(), notify.Message{Text: "error"}))

	assert.Equal(t, "error", raw["text"])
	assert.NotContains(t, raw, "blocks")
}

func TestWebhook_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook, err := New(server.URL, WithHTTPClient(server.Client()), fastRetry())
	require.NoError(t, err)
	require.NoError(t, hook.Send(context.Background(), notify.Message{Text: "x"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhook_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	hook, err := New(server.URL, WithHTTPClient(server.Client()), fastRetry())
	require.NoError(t, err)
	err = hook.Send(context.Background(), notify.Message{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhook_RateLimitIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}))
	defer server.Close()

	hook, err := New(server.URL, WithHTTPClient(server.Client()), fastRetry())
	require.NoError(t, err)
	require.NoError(t, hook.Send(context.Background(), notify.Message{Text: "x"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestToBlocks_UnknownTypeIsSection(t *testing.T) {
	blocks := ToBlocks([]digest.Block{{Type: "mystery", Text: "t"}})
	require.Len(t, blocks, 1)
	assert.Equal(t, "section", string(blocks[0].BlockType()))
}
