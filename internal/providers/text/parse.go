package text

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/yoockh/preptalk/internal/models"
)

// ParseContent extracts a TeachingContent from an upstream reply.
//
// Two passes: strict unmarshal of the raw reply, then a lenient pass that
// strips code fences and extracts the first balanced JSON object. Lists
// longer than the maximum are truncated; lists below the minimum are kept
// as long as they are non-empty, the caller tops them up. Blank fields,
// blank items and empty lists are parse failures, which the caller treats
// as retryable.
func ParseContent(raw string) (models.TeachingContent, error) {
	var c models.TeachingContent
	if err := sonic.Unmarshal([]byte(raw), &c); err != nil {
		obj, ok := extractJSONObject(stripFences(raw))
		if !ok {
			return models.TeachingContent{}, fmt.Errorf("no JSON object in reply")
		}
		c = models.TeachingContent{}
		if err := sonic.Unmarshal([]byte(obj), &c); err != nil {
			return models.TeachingContent{}, fmt.Errorf("parse reply: %w", err)
		}
	}

	if len(c.SampleQuestions) > models.MaxListLen {
		c.SampleQuestions = c.SampleQuestions[:models.MaxListLen]
	}
	if len(c.Tips) > models.MaxListLen {
		c.Tips = c.Tips[:models.MaxListLen]
	}

	if err := checkParsed(c); err != nil {
		return models.TeachingContent{}, fmt.Errorf("invalid content: %w", err)
	}
	return c, nil
}

// checkParsed is Validate minus the minimum-length rule: a coherent reply
// with a short list is worth keeping.
func checkParsed(c models.TeachingContent) error {
	for _, s := range []string{c.TeachingGoal, c.ParentScript, c.ModelAnswer} {
		if strings.TrimSpace(s) == "" {
			return models.ErrBlankField
		}
	}
	for _, list := range [][]string{c.SampleQuestions, c.Tips} {
		if len(list) == 0 {
			return models.ErrListTooShort
		}
		for _, s := range list {
			if strings.TrimSpace(s) == "" {
				return models.ErrBlankField
			}
		}
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} span, tracking strings
// and escapes so braces inside values do not truncate the object.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
