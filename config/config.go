package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// TextConfig configures the upstream chat-completion adapter.
type TextConfig struct {
	Provider        string // "chat" (default) or "vertex"
	Endpoint        string
	APIKey          string
	Model           string
	Timeout         time.Duration
	MaxAttempts     int
	Temperature     float64
	MaxTokens       int
	VertexProjectID string
	VertexLocation  string
}

// TTSConfig configures the upstream speech synthesis adapter.
type TTSConfig struct {
	Endpoint    string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

type CacheConfig struct {
	MaxEntries int
	BuildWait  time.Duration
	TTL        time.Duration
}

type Config struct {
	Port string

	Text  TextConfig
	TTS   TTSConfig
	Cache CacheConfig

	OrchestratorDeadline time.Duration
	ImageCataloguePath   string
	ImageDefaultCount    int
	EnableFallback       bool

	RedisAddr string // optional durable cache backend
	GCSBucket string // optional audio object store
}

// Load reads configuration from the environment. Callers run godotenv.Load
// first if they want .env support.
func Load() *Config {
	return &Config{
		Port: getenv("PORT", "8080"),
		Text: TextConfig{
			Provider:        getenv("TEXT_PROVIDER", "chat"),
			Endpoint:        getenv("TEXT_ENDPOINT", ""),
			APIKey:          getenv("TEXT_API_KEY", ""),
			Model:           getenv("TEXT_MODEL", "gpt-4o-mini"),
			Timeout:         getenvMS("TEXT_TIMEOUT_MS", 8000),
			MaxAttempts:     getenvInt("TEXT_MAX_ATTEMPTS", 3),
			Temperature:     getenvFloat("TEXT_TEMPERATURE", 0.7),
			MaxTokens:       getenvInt("TEXT_MAX_TOKENS", 1024),
			VertexProjectID: getenv("VERTEX_PROJECT_ID", ""),
			VertexLocation:  getenv("VERTEX_LOCATION", "asia-east2"),
		},
		TTS: TTSConfig{
			Endpoint:    getenv("TTS_ENDPOINT", ""),
			APIKey:      getenv("TTS_API_KEY", ""),
			Model:       getenv("TTS_MODEL", "speech-01"),
			Timeout:     getenvMS("TTS_TIMEOUT_MS", 10000),
			MaxAttempts: getenvInt("TTS_MAX_ATTEMPTS", 2),
		},
		Cache: CacheConfig{
			MaxEntries: getenvInt("CACHE_MAX_ENTRIES", 512),
			BuildWait:  getenvMS("CACHE_BUILD_WAIT_MS", 10000),
			TTL:        getenvMS("CACHE_TTL_MS", 0), // 0 = no expiry
		},
		OrchestratorDeadline: getenvMS("ORCH_DEADLINE_MS", 15000),
		ImageCataloguePath:   getenv("IMAGE_CATALOGUE_PATH", ""),
		ImageDefaultCount:    getenvInt("IMAGE_DEFAULT_COUNT", 3),
		EnableFallback:       getenvBool("ENABLE_FALLBACK", true),
		RedisAddr:            firstenv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		GCSBucket:            getenv("GCS_BUCKET", ""),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstenv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getenvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvMS(key string, defMS int) time.Duration {
	return time.Duration(getenvInt(key, defMS)) * time.Millisecond
}
