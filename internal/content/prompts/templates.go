package prompts

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/models"
	"github.com/yoockh/preptalk/internal/utils"
)

// EmptyMarker replaces placeholders whose profile field is missing. It is a
// stable token so rendered prompts never carry a visible {{...}}.
const EmptyMarker = "-"

// listSeparator joins list-valued profile fields.
const listSeparator = ", "

// Template is a versioned prompt pair for one topic. Version participates in
// the cache fingerprint and is bumped whenever prompt text changes.
type Template struct {
	TopicID string
	Version int
	System  string
	User    string
}

type RenderedPrompt struct {
	System string
	User   string
}

// Library resolves templates by topic id. Loaded at startup, read-only after.
type Library struct {
	byTopic  map[string]Template
	log      *logrus.Logger
	counters *metrics.Counters
}

func NewLibrary(log *logrus.Logger, counters *metrics.Counters) *Library {
	if log == nil {
		log = logrus.New()
	}
	if counters == nil {
		counters = &metrics.Counters{}
	}
	byTopic := make(map[string]Template, len(catalog))
	for _, t := range catalog {
		byTopic[t.TopicID] = t
	}
	return &Library{byTopic: byTopic, log: log, counters: counters}
}

// Resolve returns the template for a topic. Unknown topic ids are rejected;
// a known topic without a dedicated template falls back to the
// self-introduction template.
func (l *Library) Resolve(topicID string) (Template, error) {
	const op = "prompts.Resolve"

	if _, ok := models.TopicByID(topicID); !ok {
		return Template{}, utils.E(utils.CodeInvalidArgument, op, "unknown topic_id", nil)
	}
	if t, ok := l.byTopic[topicID]; ok {
		return t, nil
	}
	l.counters.TemplateFallbacks.Add(1)
	l.log.WithFields(logrus.Fields{
		"topic_id": topicID,
		"event":    "template_fallback",
	}).Warn("no dedicated template, using self-introduction")
	return l.byTopic[models.TopicSelfIntroduction], nil
}

// Render substitutes profile variables into the template. Substitution is
// literal string replacement on {{token}} delimiters.
func Render(tpl Template, p models.Profile) RenderedPrompt {
	topic, _ := models.TopicByID(tpl.TopicID)

	vars := map[string]string{
		"topic":        topic.Title(p.Language()),
		"age_band":     orMarker(string(p.AgeBand)),
		"gender":       orMarker(p.Gender),
		"interests":    joinOrMarker(p.Interests),
		"school_types": joinOrMarker(p.TargetSchoolTypes),
		"language":     languageName(p.Language()),
	}

	return RenderedPrompt{
		System: fill(tpl.System, vars),
		User:   fill(tpl.User, vars),
	}
}

var placeholderRe = regexp.MustCompile(`\{\{[a-z_]+\}\}`)

func fill(s string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	s = strings.NewReplacer(pairs...).Replace(s)
	// any token the template references beyond the known set
	return placeholderRe.ReplaceAllString(s, EmptyMarker)
}

func orMarker(s string) string {
	if strings.TrimSpace(s) == "" {
		return EmptyMarker
	}
	return s
}

func joinOrMarker(list []string) string {
	if len(list) == 0 {
		return EmptyMarker
	}
	return strings.Join(list, listSeparator)
}

func languageName(lang string) string {
	if lang == models.LanguageEN {
		return "English"
	}
	return "Traditional Chinese (繁體中文, Hong Kong usage)"
}
