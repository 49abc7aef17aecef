package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/preptalk/config"
	"github.com/yoockh/preptalk/internal/cache"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/providers"
	"github.com/yoockh/preptalk/internal/storage"
)

const audioCacheTTL = 0 // artifacts are immutable; no expiry

// HTTPTTS calls the upstream speech endpoint. Replies carry either an audio
// URL or an inline base64 blob; blobs are uploaded through the object-store
// collaborator so the cached form is always a URL.
type HTTPTTS struct {
	client   *resty.Client
	endpoint string
	model    string
	retry    providers.RetryPolicy
	uploader storage.Uploader // nil when no bucket is configured
	store    cache.Cache      // secondary audio cache, keyed (text, dialect, voice)
	counters *metrics.Counters
	log      *logrus.Logger
}

func NewHTTPTTS(cfg config.TTSConfig, uploader storage.Uploader, store cache.Cache, counters *metrics.Counters, log *logrus.Logger) *HTTPTTS {
	if counters == nil {
		counters = &metrics.Counters{}
	}
	if log == nil {
		log = logrus.New()
	}
	if uploader == nil {
		log.Warn("tts: no object store configured, inline audio replies will be unavailable")
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &HTTPTTS{
		client:   client,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		retry:    providers.NewRetryPolicy(cfg.MaxAttempts),
		uploader: uploader,
		store:    store,
		counters: counters,
		log:      log,
	}
}

type synthesisRequest struct {
	Model        string `json:"model"`
	Text         string `json:"text"`
	VoiceSetting struct {
		VoiceID string `json:"voice_id"`
		Dialect string `json:"dialect"`
	} `json:"voice_setting"`
	AudioSetting struct {
		Format string `json:"format"`
	} `json:"audio_setting"`
}

type synthesisResponse struct {
	Audio struct {
		URL        string `json:"url"`
		Data       string `json:"data"` // base64, optional data: prefix
		DurationMS int64  `json:"duration_ms"`
	} `json:"audio"`
}

func (t *HTTPTTS) Synthesize(ctx context.Context, text, dialect, voice string) (Result, error) {
	hash := textHash(text)
	cacheKey := fmt.Sprintf("tts:%s:%s:%s", hash, dialect, voice)

	if t.store != nil {
		var cached Result
		if hit, err := t.store.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			cached.Cached = true
			return cached, nil
		}
	}

	body := synthesisRequest{Model: t.model, Text: text}
	body.VoiceSetting.VoiceID = voice
	body.VoiceSetting.Dialect = dialect
	body.AudioSetting.Format = "mp3"

	log := t.log.WithFields(logrus.Fields{"adapter": "tts.http", "dialect": dialect})

	var result Result
	err := t.retry.Do(ctx, log, func(ctx context.Context) error {
		t.counters.TTSCalls.Add(1)

		var reply synthesisResponse
		resp, err := t.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&reply).
			Post(t.endpoint)
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

		url, err := t.resolveURL(ctx, reply, hash, dialect, voice)
		if err != nil {
			return err
		}
		result = Result{URL: url, DurationMS: reply.Audio.DurationMS}
		return nil
	})
	if err != nil {
		t.counters.TTSUnavailable.Add(1)
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if t.store != nil {
		if err := t.store.SetJSON(ctx, cacheKey, result, audioCacheTTL); err != nil {
			t.counters.CacheBackendErrors.Add(1)
		}
	}
	return result, nil
}

// resolveURL normalizes a reply to a URL, uploading inline audio if needed.
func (t *HTTPTTS) resolveURL(ctx context.Context, reply synthesisResponse, hash, dialect, voice string) (string, error) {
	if reply.Audio.URL != "" {
		return reply.Audio.URL, nil
	}
	if reply.Audio.Data == "" {
		return "", fmt.Errorf("%w: reply carries neither url nor data", providers.ErrUpstreamProtocol)
	}
	if t.uploader == nil {
		return "", providers.Terminal(errors.New("inline audio reply but no object store configured"))
	}

	raw := reply.Audio.Data
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: bad base64 audio: %v", providers.ErrUpstreamProtocol, err)
	}

	objectName := fmt.Sprintf("audio/%s-%s-%s.mp3", hash, dialect, voice)
	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	url, err := t.uploader.Upload(uploadCtx, objectName, "audio/mpeg", bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("audio upload: %w", err)
	}
	return url, nil
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
