package text

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/preptalk/config"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
	"github.com/yoockh/preptalk/internal/providers"
)

// ChatHTTP talks to an OpenAI-style chat-completion endpoint and expects the
// reply content to be a TeachingContent JSON document.
type ChatHTTP struct {
	client      *resty.Client
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
	retry       providers.RetryPolicy
	counters    *metrics.Counters
	log         *logrus.Logger
}

func NewChatHTTP(cfg config.TextConfig, counters *metrics.Counters, log *logrus.Logger) *ChatHTTP {
	if counters == nil {
		counters = &metrics.Counters{}
	}
	if log == nil {
		log = logrus.New()
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &ChatHTTP{
		client:      client,
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       providers.NewRetryPolicy(cfg.MaxAttempts),
		counters:    counters,
		log:         log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatHTTP) GenerateContent(ctx context.Context, system, user string) (models.TeachingContent, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	log := c.log.WithField("adapter", "text.chat")

	var out models.TeachingContent
	err := c.retry.Do(ctx, log, func(ctx context.Context) error {
		c.counters.TextUpstreamCalls.Add(1)

		var reply chatResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&reply).
			Post(c.endpoint)
		if err != nil {
			if providers.IsTimeout(ctx, err) {
				return fmt.Errorf("%w: %v", providers.ErrUpstreamTimeout, err)
			}
			return fmt.Errorf("%w: %v", providers.ErrUpstreamProtocol, err)
		}
		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return providers.Terminal(fmt.Errorf("%w: status %d", providers.ErrUpstreamAuth, resp.StatusCode()))
		}
		if resp.IsError() {
			return fmt.Errorf("%w: status %d", providers.ErrUpstreamProtocol, resp.StatusCode())
		}
		if len(reply.Choices) == 0 {
			return fmt.Errorf("%w: empty choices", providers.ErrUpstreamProtocol)
		}

		parsed, perr := ParseContent(reply.Choices[0].Message.Content)
		if perr != nil {
			// a malformed reply is transient from the caller's view
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
