package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yoockh/preptalk/internal/cache"
	"github.com/yoockh/preptalk/internal/content/fingerprint"
	"github.com/yoockh/preptalk/internal/content/prompts"
	"github.com/yoockh/preptalk/internal/content/visuals"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
	"github.com/yoockh/preptalk/internal/providers/text"
	"github.com/yoockh/preptalk/internal/providers/tts"
	"github.com/yoockh/preptalk/internal/utils"
)

// ContentService is the pipeline's public contract, consumed by the HTTP
// layer. The only caller-visible failure for a valid topic is INVALID_ARGUMENT;
// audio and image failures degrade inside the bundle.
type ContentService interface {
	Generate(ctx context.Context, profile models.Profile, topicID string, opts models.GenerationOptions) (*models.Bundle, error)
}

type ContentServiceDeps struct {
	Templates *prompts.Library
	Text      text.Provider
	TTS       tts.Provider
	Selector  *visuals.Selector
	Bundles   *cache.BundleCache
	Counters  *metrics.Counters
	Logger    *logrus.Logger

	OverallDeadline time.Duration
	ImageCount      int
	EnableFallback  bool
}

type contentService struct {
	templates *prompts.Library
	textProv  text.Provider
	fallback  text.Fallback
	ttsProv   tts.Provider
	selector  *visuals.Selector
	bundles   *cache.BundleCache
	counters  *metrics.Counters
	log       *logrus.Logger

	deadline       time.Duration
	imageCount     int
	enableFallback bool
}

func NewContentService(d ContentServiceDeps) ContentService {
	if d.Counters == nil {
		d.Counters = &metrics.Counters{}
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	if d.OverallDeadline <= 0 {
		d.OverallDeadline = 15 * time.Second
	}
	if d.ImageCount <= 0 {
		d.ImageCount = 3
	}
	return &contentService{
		templates:      d.Templates,
		textProv:       d.Text,
		ttsProv:        d.TTS,
		selector:       d.Selector,
		bundles:        d.Bundles,
		counters:       d.Counters,
		log:            d.Logger,
		deadline:       d.OverallDeadline,
		imageCount:     d.ImageCount,
		enableFallback: d.EnableFallback,
	}
}

func (s *contentService) Generate(ctx context.Context, profile models.Profile, topicID string, opts models.GenerationOptions) (*models.Bundle, error) {
	const op = "ContentService.Generate"

	topic, ok := models.TopicByID(topicID)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown topic_id", nil)
	}
	if !profile.AgeBand.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid age_band", nil)
	}
	opts = opts.Normalized()
	for _, d := range opts.Dialects {
		if !models.ValidDialect(d) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "unknown dialect: "+d, nil)
		}
	}

	tpl, err := s.templates.Resolve(topicID)
	if err != nil {
		return nil, err
	}

	fp := fingerprint.Compute(profile, topicID, tpl.Version, opts)
	log := s.log.WithFields(logrus.Fields{"topic_id": topicID, "fingerprint": fp})

	bundle, err := s.bundles.GetOrBuild(ctx, fp, opts.ForceRegenerate, func(ctx context.Context) (*models.Bundle, error) {
		return s.build(ctx, log, profile, topic, tpl, opts)
	})
	if err != nil {
		if utils.IsCode(err, utils.CodeInvalidArgument) {
			return nil, err
		}
		// unreachable while the fallback is enabled; callers treat it as a bug
		return nil, utils.E(utils.CodeUnavailable, op, "content generation unavailable", err)
	}
	return bundle, nil
}

func (s *contentService) build(ctx context.Context, log *logrus.Entry, profile models.Profile, topic models.Topic, tpl prompts.Template, opts models.GenerationOptions) (*models.Bundle, error) {
	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	start := time.Now()
	rendered := prompts.Render(tpl, profile)

	content, source, err := s.generateText(ctx, rendered, profile, topic)
	if err != nil {
		return nil, err
	}

	bundle := &models.Bundle{
		TopicID:    topic.ID,
		TopicTitle: topic.Title(profile.Language()),
		Content:    content,
		Audio:      map[string]models.AudioClip{},
		Images:     []models.ImageRef{},
	}

	if opts.IncludeAudio {
		bundle.Audio = s.synthesizeAll(ctx, content.ModelAnswer, opts.Dialects)
	}
	if opts.IncludeImages {
		bundle.Images = s.selector.Select(topic.ID, profile.Interests, s.imageCount)
	}

	bundle.Provenance = models.Provenance{
		TextSource:      source,
		TemplateVersion: tpl.Version,
		GeneratedAt:     time.Now().UTC(),
		ElapsedMS:       time.Since(start).Milliseconds(),
	}

	log.WithFields(logrus.Fields{
		"text_source": source,
		"elapsed_ms":  bundle.Provenance.ElapsedMS,
		"images":      len(bundle.Images),
		"dialects":    bundle.Dialects(),
	}).Info("bundle built")
	return bundle, nil
}

// generateText runs the text adapter and hides its failure behind the
// deterministic fallback. Text is the critical path: this returns an error
// only when the fallback itself is disabled.
func (s *contentService) generateText(ctx context.Context, rendered prompts.RenderedPrompt, profile models.Profile, topic models.Topic) (models.TeachingContent, string, error) {
	if s.textProv != nil {
		content, err := s.textProv.GenerateContent(ctx, rendered.System, rendered.User)
		if err == nil {
			s.fallback.Complete(&content, profile, topic)
			return content, models.TextSourceUpstream, nil
		}
		s.log.WithError(err).WithField("topic_id", topic.ID).Warn("text upstream failed")
	}

	if !s.enableFallback {
		return models.TeachingContent{}, "", utils.E(utils.CodeUnavailable, "ContentService.generateText", "upstream failed and fallback disabled", nil)
	}
	s.counters.TextFallbacks.Add(1)
	return s.fallback.Build(profile, topic), models.TextSourceFallback, nil
}

// synthesizeAll runs one synthesis per requested dialect concurrently. A
// failed dialect becomes an unavailable clip; it never aborts the others.
func (s *contentService) synthesizeAll(ctx context.Context, spokenText string, dialects []string) map[string]models.AudioClip {
	clips := make([]models.AudioClip, len(dialects))

	var g errgroup.Group
	for i, dialect := range dialects {
		g.Go(func() error {
			clips[i] = s.synthesizeOne(ctx, spokenText, dialect)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]models.AudioClip, len(dialects))
	for i, dialect := range dialects {
		out[dialect] = clips[i]
	}
	return out
}

func (s *contentService) synthesizeOne(ctx context.Context, spokenText, dialect string) models.AudioClip {
	unavailable := models.AudioClip{Source: models.AudioSourceUnavailable}

	voice, ok := tts.VoiceFor(dialect)
	if !ok || s.ttsProv == nil {
		return unavailable
	}
	res, err := s.ttsProv.Synthesize(ctx, spokenText, dialect, voice)
	if err != nil {
		s.log.WithError(err).WithField("dialect", dialect).Warn("tts failed")
		return unavailable
	}

	source := models.AudioSourceGenerated
	if res.Cached {
		source = models.AudioSourceCached
	}
	url := res.URL
	duration := res.DurationMS
	return models.AudioClip{URL: &url, DurationMS: &duration, Source: source}
}
