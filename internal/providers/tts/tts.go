package tts

import (
	"context"
	"errors"
)

// ErrUnavailable signals that no audio could be produced within the retry
// budget. The orchestrator records it per dialect; it never fails a bundle.
var ErrUnavailable = errors.New("tts unavailable")

// Result is one synthesized artifact, always URL-addressed. Cached reports
// whether it came from the audio cache rather than a fresh upstream call.
type Result struct {
	URL        string `json:"url"`
	DurationMS int64  `json:"duration_ms"`
	Cached     bool   `json:"-"`
}

// Provider synthesizes speech for a dialect. Implementations are
// deterministic per (text, dialect, voice) and safe for concurrent use.
type Provider interface {
	Synthesize(ctx context.Context, text, dialect, voice string) (Result, error)
}
