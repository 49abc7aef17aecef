package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/preptalk/internal/api/handlers"
	"github.com/yoockh/preptalk/internal/metrics"
)

type Deps struct {
	Content  *handlers.ContentHandler
	Counters *metrics.Counters
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(200, d.Counters.Snapshot())
	})

	api := r.Group("/api")
	api.GET("/content/topics", d.Content.Topics)
	api.POST("/content/generate", d.Content.Generate)
}
