package text

import (
	"context"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/preptalk/config"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
	"github.com/yoockh/preptalk/internal/providers"
)

// generativeModel is the slice of *vertexgenai.GenerativeModel the adapter
// calls, split out so tests can stand in for the SDK.
type generativeModel interface {
	GenerateContent(ctx context.Context, parts ...vertexgenai.Part) (*vertexgenai.GenerateContentResponse, error)
}

// VertexGemini is an alternate text Provider backed by Vertex AI. Calls are
// non-streaming, run under the same retry policy as ChatHTTP, and the reply
// goes through the same parse pipeline.
type VertexGemini struct {
	client   *vertexgenai.Client
	model    generativeModel
	retry    providers.RetryPolicy
	counters *metrics.Counters
	log      *logrus.Logger
}

func NewVertexGemini(ctx context.Context, cfg config.TextConfig, counters *metrics.Counters, log *logrus.Logger) (*VertexGemini, error) {
	if counters == nil {
		counters = &metrics.Counters{}
	}
	if log == nil {
		log = logrus.New()
	}

	c, err := vertexgenai.NewClient(ctx, cfg.VertexProjectID, cfg.VertexLocation)
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &VertexGemini{
		client:   c,
		model:    c.GenerativeModel(modelName),
		retry:    providers.NewRetryPolicy(cfg.MaxAttempts),
		counters: counters,
		log:      log,
	}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) GenerateContent(ctx context.Context, system, user string) (models.TeachingContent, error) {
	prompt := system + "\n\n" + user
	log := v.log.WithField("adapter", "text.vertex")

	var out models.TeachingContent
	err := v.retry.Do(ctx, log, func(ctx context.Context) error {
		v.counters.TextUpstreamCalls.Add(1)

		resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
		if err != nil {
			if providers.IsTimeout(ctx, err) {
				return fmt.Errorf("%w: %v", providers.ErrUpstreamTimeout, err)
			}
			return fmt.Errorf("%w: %v", providers.ErrUpstreamProtocol, err)
		}

		parsed, perr := ParseContent(flattenParts(resp))
		if perr != nil {
			return fmt.Errorf("%w: %v", providers.ErrUpstreamProtocol, perr)
		}
		out = parsed
		return nil
	})
	if err != nil {
		return models.TeachingContent{}, err
	}
	return out, nil
}

func flattenParts(resp *vertexgenai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
