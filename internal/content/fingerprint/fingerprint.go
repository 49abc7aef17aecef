// Package fingerprint derives the cache key for a generation request.
// Personalization is by attribute, not identity: two children with the same
// relevant attributes share one fingerprint and therefore one cached bundle.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/yoockh/preptalk/internal/models"
)

// Compute hashes the canonical serialization of the cache-relevant inputs.
// Name, gender and profile id deliberately do not participate.
func Compute(p models.Profile, topicID string, templateVersion int, opts models.GenerationOptions) string {
	opts = opts.Normalized()

	var b strings.Builder
	line(&b, "age_band", string(p.AgeBand))
	line(&b, "dialects", joinSorted(opts.Dialects))
	line(&b, "include_audio", strconv.FormatBool(opts.IncludeAudio))
	line(&b, "include_images", strconv.FormatBool(opts.IncludeImages))
	line(&b, "interests", joinSorted(p.Interests))
	line(&b, "language", p.Language())
	line(&b, "school_types", joinSorted(p.TargetSchoolTypes))
	line(&b, "template_version", strconv.Itoa(templateVersion))
	line(&b, "topic_id", topicID)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

func line(b *strings.Builder, k, v string) {
	b.WriteString(k)
	b.WriteByte('=')
	b.WriteString(v)
	b.WriteByte('\n')
}

func joinSorted(list []string) string {
	sorted := make([]string, len(list))
	copy(sorted, list)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
