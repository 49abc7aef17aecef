package text

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/preptalk/config"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/providers"
)

func newTestChat(endpoint string, attempts int, counters *metrics.Counters) *ChatHTTP {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	c := NewChatHTTP(config.TextConfig{
		Endpoint:    endpoint,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     2 * time.Second,
		MaxAttempts: attempts,
		Temperature: 0.7,
		MaxTokens:   512,
	}, counters, log)
	c.retry.BaseDelay = time.Millisecond
	return c
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestChatHTTPSuccess(t *testing.T) {
	var calls atomic.Int64
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		chatReply(t, w, validDoc)
	}))
	defer srv.Close()

	counters := &metrics.Counters{}
	c := newTestChat(srv.URL, 3, counters)

	content, err := c.GenerateContent(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "goal", content.TeachingGoal)

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), counters.TextUpstreamCalls.Load())
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestChatHTTPRetriesThenFails(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 3, &metrics.Counters{})
	_, err := c.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamProtocol))
	assert.Equal(t, int64(3), calls.Load())
}

func TestChatHTTPRecoversOnSecondAttempt(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		chatReply(t, w, "```json\n"+validDoc+"\n```")
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 3, &metrics.Counters{})
	content, err := c.GenerateContent(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "answer", content.ModelAnswer)
	assert.Equal(t, int64(2), calls.Load())
}

func TestChatHTTPKeepsShortListReply(t *testing.T) {
	var calls atomic.Int64
	shortDoc := `{"teaching_goal":"g","parent_script":"s","sample_questions":["q1","q2"],"model_answer":"m","tips":["only tip"]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		chatReply(t, w, shortDoc)
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 3, &metrics.Counters{})
	content, err := c.GenerateContent(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"only tip"}, content.Tips, "a short list is kept for the caller to top up")
	assert.Equal(t, int64(1), calls.Load())
}

func TestChatHTTPClientTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		chatReply(t, w, validDoc)
	}))
	defer srv.Close()

	c := NewChatHTTP(config.TextConfig{
		Endpoint:    srv.URL,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     20 * time.Millisecond,
		MaxAttempts: 2,
	}, &metrics.Counters{}, nil)
	c.retry.BaseDelay = time.Millisecond

	_, err := c.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamTimeout))
}

func TestChatHTTPAuthFailureIsTerminal(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 3, &metrics.Counters{})
	_, err := c.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamAuth))
	assert.Equal(t, int64(1), calls.Load(), "auth failures must not be retried")
}

func TestChatHTTPUnparseableReplyIsRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		chatReply(t, w, "a coherent reply that is not JSON at all")
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 3, &metrics.Counters{})
	_, err := c.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamProtocol))
	assert.Equal(t, int64(3), calls.Load())
}

func TestChatHTTPEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestChat(srv.URL, 2, &metrics.Counters{})
	_, err := c.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamProtocol))
}
