package models

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Supported TTS dialects.
const (
	DialectCantonese = "cantonese"
	DialectMandarin  = "mandarin"
)

func ValidDialect(d string) bool {
	return d == DialectCantonese || d == DialectMandarin
}

// GenerationOptions control a single Generate call.
type GenerationOptions struct {
	ForceRegenerate bool     `json:"force_regenerate"`
	IncludeAudio    bool     `json:"include_audio"`
	IncludeImages   bool     `json:"include_images"`
	Dialects        []string `json:"dialects"`
}

// Normalized returns a copy with the dialect default applied (both dialects,
// cantonese first).
func (o GenerationOptions) Normalized() GenerationOptions {
	if len(o.Dialects) == 0 {
		o.Dialects = []string{DialectCantonese, DialectMandarin}
	}
	return o
}

// List length bounds for sample questions and tips.
const (
	MinListLen = 2
	MaxListLen = 5
)

// TeachingContent is the structured text of a bundle. A value that passed
// Validate has every field populated; callers never see a half-filled one.
type TeachingContent struct {
	TeachingGoal    string   `json:"teaching_goal"`
	ParentScript    string   `json:"parent_script"`
	SampleQuestions []string `json:"sample_questions"`
	ModelAnswer     string   `json:"model_answer"`
	Tips            []string `json:"tips"`
}

var (
	ErrBlankField   = errors.New("blank content field")
	ErrListTooShort = errors.New("list below minimum length")
	ErrListTooLong  = errors.New("list above maximum length")
)

func (c TeachingContent) Validate() error {
	for _, s := range []string{c.TeachingGoal, c.ParentScript, c.ModelAnswer} {
		if strings.TrimSpace(s) == "" {
			return ErrBlankField
		}
	}
	for _, list := range [][]string{c.SampleQuestions, c.Tips} {
		if len(list) < MinListLen {
			return ErrListTooShort
		}
		if len(list) > MaxListLen {
			return ErrListTooLong
		}
		for _, s := range list {
			if strings.TrimSpace(s) == "" {
				return ErrBlankField
			}
		}
	}
	return nil
}

// Audio source markers.
const (
	AudioSourceGenerated   = "generated"
	AudioSourceCached      = "cached"
	AudioSourceUnavailable = "unavailable"
)

// AudioClip references one synthesized artifact. URL is nil exactly when
// Source is "unavailable".
type AudioClip struct {
	URL        *string `json:"url"`
	DurationMS *int64  `json:"duration_ms"`
	Source     string  `json:"source"`
}

type ImageRef struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Text source markers.
const (
	TextSourceUpstream = "upstream"
	TextSourceFallback = "fallback"
)

type Provenance struct {
	TextSource      string    `json:"text_source"`
	TemplateVersion int       `json:"template_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	ElapsedMS       int64     `json:"elapsed_ms"`
}

// Bundle is the unit of generated output and the unit cached. Bundles are
// never mutated after insertion into the cache.
type Bundle struct {
	TopicID    string               `json:"topic_id"`
	TopicTitle string               `json:"topic_title"`
	Content    TeachingContent      `json:"content"`
	Audio      map[string]AudioClip `json:"audio"`
	Images     []ImageRef           `json:"images"`
	Provenance Provenance           `json:"provenance"`
}

// Dialects returns the bundle's audio keys in sorted order, for logging.
func (b *Bundle) Dialects() []string {
	out := make([]string, 0, len(b.Audio))
	for d := range b.Audio {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
