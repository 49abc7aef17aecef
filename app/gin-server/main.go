package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yoockh/preptalk/config"
	"github.com/yoockh/preptalk/internal/api/handlers"
	"github.com/yoockh/preptalk/internal/api/middleware"
	"github.com/yoockh/preptalk/internal/api/routes"
	"github.com/yoockh/preptalk/internal/cache"
	"github.com/yoockh/preptalk/internal/content/prompts"
	"github.com/yoockh/preptalk/internal/content/visuals"
	"github.com/yoockh/preptalk/internal/logger"
	"github.com/yoockh/preptalk/internal/metrics"
	"github.com/yoockh/preptalk/internal/providers/text"
	"github.com/yoockh/preptalk/internal/providers/tts"
	"github.com/yoockh/preptalk/internal/services"
	"github.com/yoockh/preptalk/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New()
	counters := &metrics.Counters{}
	ctx := context.Background()

	// cache: in-process always, Redis when configured
	local := cache.NewMemoryCache(cfg.Cache.MaxEntries)
	var durable cache.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			lg.WithError(err).Warn("redis unreachable, running on in-process cache only")
		} else {
			durable = rc
		}
	}
	bundles := cache.NewBundleCache(local, durable, cfg.Cache.BuildWait, cfg.Cache.TTL, counters, lg)

	// object store for inline TTS replies
	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer up.Close()
		uploader = up
	}

	// text provider
	var textProv text.Provider
	switch cfg.Text.Provider {
	case "vertex":
		vg, err := text.NewVertexGemini(ctx, cfg.Text, counters, lg)
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
		defer vg.Close()
		textProv = vg
	default:
		textProv = text.NewChatHTTP(cfg.Text, counters, lg)
	}

	audioCache := durable
	if audioCache == nil {
		audioCache = local
	}
	ttsProv := tts.NewHTTPTTS(cfg.TTS, uploader, audioCache, counters, lg)

	catalogue, err := visuals.LoadCatalogue(cfg.ImageCataloguePath)
	if err != nil {
		log.Fatalf("image catalogue error: %v", err)
	}

	content := services.NewContentService(services.ContentServiceDeps{
		Templates:       prompts.NewLibrary(lg, counters),
		Text:            textProv,
		TTS:             ttsProv,
		Selector:        visuals.NewSelector(catalogue),
		Bundles:         bundles,
		Counters:        counters,
		Logger:          lg,
		OverallDeadline: cfg.OrchestratorDeadline,
		ImageCount:      cfg.ImageDefaultCount,
		EnableFallback:  cfg.EnableFallback,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))
	routes.RegisterRoutes(r, routes.Deps{
		Content:  handlers.NewContentHandler(content),
		Counters: counters,
	})

	lg.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
