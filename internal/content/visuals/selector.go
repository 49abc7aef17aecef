package visuals

import (
	"sort"

	"github.com/yoockh/preptalk/internal/models"
)

// Selector picks visual aids for a topic. Selection is deterministic for a
// fixed catalogue: identical (topic, interests, n) always yields the same
// ordered list, which keeps cached bundles stable.
type Selector struct {
	cat *Catalogue
}

func NewSelector(cat *Catalogue) *Selector {
	return &Selector{cat: cat}
}

// Select returns up to n images tagged with the topic, scored by overlap with
// the child's interests. Ties break on catalogue insertion order. If fewer
// than n match, generic-tagged images pad the result in catalogue order; the
// result may be shorter than n, possibly empty, never nil.
func (s *Selector) Select(topicID string, interests []string, n int) []models.ImageRef {
	out := []models.ImageRef{}
	if n <= 0 {
		return out
	}

	interestSet := make(map[string]struct{}, len(interests))
	for _, it := range interests {
		interestSet[it] = struct{}{}
	}

	type scored struct {
		idx   int
		score int
	}
	var matches []scored
	for i, img := range s.cat.Images() {
		if !hasTag(img, topicID) {
			continue
		}
		score := 0
		for _, tag := range img.Tags {
			if _, ok := interestSet[tag]; ok {
				score++
			}
		}
		matches = append(matches, scored{idx: i, score: score})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return matches[a].idx < matches[b].idx
	})

	chosen := make(map[int]struct{}, n)
	for _, m := range matches {
		if len(out) == n {
			return out
		}
		out = append(out, toRef(s.cat.Images()[m.idx]))
		chosen[m.idx] = struct{}{}
	}

	// pad with generic images in catalogue order
	for i, img := range s.cat.Images() {
		if len(out) == n {
			break
		}
		if _, dup := chosen[i]; dup {
			continue
		}
		if hasTag(img, TagGeneric) {
			out = append(out, toRef(img))
			chosen[i] = struct{}{}
		}
	}
	return out
}

func hasTag(img Image, tag string) bool {
	for _, t := range img.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func toRef(img Image) models.ImageRef {
	return models.ImageRef{ID: img.ID, URL: img.URL, Caption: img.Caption}
}
