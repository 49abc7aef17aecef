package metrics

import "sync/atomic"

// Counters holds the pipeline's named counters. Internal failures increment
// these instead of surfacing; tests assert on them.
type Counters struct {
	TextUpstreamCalls  atomic.Int64
	TextFallbacks      atomic.Int64
	TTSCalls           atomic.Int64
	TTSUnavailable     atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	TemplateFallbacks  atomic.Int64
	CacheBackendErrors atomic.Int64
}

func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"text_upstream_calls":  c.TextUpstreamCalls.Load(),
		"text_fallbacks":       c.TextFallbacks.Load(),
		"tts_calls":            c.TTSCalls.Load(),
		"tts_unavailable":      c.TTSUnavailable.Load(),
		"cache_hits":           c.CacheHits.Load(),
		"cache_misses":         c.CacheMisses.Load(),
		"template_fallbacks":   c.TemplateFallbacks.Load(),
		"cache_backend_errors": c.CacheBackendErrors.Load(),
	}
}
