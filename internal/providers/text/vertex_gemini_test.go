package text

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/providers"
)

type stubGeminiModel struct {
	calls   atomic.Int64
	failing int // calls up to this count error out
	reply   string
}

func (s *stubGeminiModel) GenerateContent(_ context.Context, _ ...vertexgenai.Part) (*vertexgenai.GenerateContentResponse, error) {
	if int(s.calls.Add(1)) <= s.failing {
		return nil, errors.New("rpc unavailable")
	}
	return &vertexgenai.GenerateContentResponse{
		Candidates: []*vertexgenai.Candidate{
			{Content: &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(s.reply)}}},
		},
	}, nil
}

func newTestVertex(model generativeModel, attempts int) *VertexGemini {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	v := &VertexGemini{
		model:    model,
		retry:    providers.NewRetryPolicy(attempts),
		counters: &metrics.Counters{},
		log:      log,
	}
	v.retry.BaseDelay = time.Millisecond
	return v
}

func TestVertexGeminiSuccess(t *testing.T) {
	stub := &stubGeminiModel{reply: validDoc}
	v := newTestVertex(stub, 3)

	content, err := v.GenerateContent(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "goal", content.TeachingGoal)
	assert.Equal(t, int64(1), stub.calls.Load())
}

func TestVertexGeminiRecoversOnSecondAttempt(t *testing.T) {
	stub := &stubGeminiModel{reply: validDoc, failing: 1}
	v := newTestVertex(stub, 3)

	content, err := v.GenerateContent(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "answer", content.ModelAnswer)
	assert.Equal(t, int64(2), stub.calls.Load())
}

func TestVertexGeminiExhaustsRetryBudget(t *testing.T) {
	stub := &stubGeminiModel{reply: validDoc, failing: 99}
	v := newTestVertex(stub, 3)

	_, err := v.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamProtocol))
	assert.Equal(t, int64(3), stub.calls.Load())
}

func TestVertexGeminiUnparseableReplyIsRetried(t *testing.T) {
	stub := &stubGeminiModel{reply: "not JSON"}
	v := newTestVertex(stub, 2)

	_, err := v.GenerateContent(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamProtocol))
	assert.Equal(t, int64(2), stub.calls.Load())
}

func TestFlattenPartsConcatenatesText(t *testing.T) {
	resp := &vertexgenai.GenerateContentResponse{
		Candidates: []*vertexgenai.Candidate{
			{Content: &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text("one "), vertexgenai.Text("two")}}},
			{Content: nil},
		},
	}
	assert.Equal(t, "one two", flattenParts(resp))
}
