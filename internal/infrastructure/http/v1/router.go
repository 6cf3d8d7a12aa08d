package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/missionmap/tileserver/internal/infrastructure/http/v1/handler"
	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(handler *handler.Handler, l logger.Logger, telemetryEnabled bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())

	if telemetryEnabled {
		r.Use(telemetry.GinMiddleware("missionmap-tileserver"))
	}

	r.Use(ginZapLogger(l))

	// The tile and resource paths are the contract with the embedded map
	// renderer; everything under /api is for the owning application.
	r.GET("/tiles/:source/:z/:x/:y", handler.Tile)
	r.GET("/resources/*filepath", handler.Resource)

	r.GET("/healthz", handler.Healthz)
	r.GET("/cache/stats", handler.CacheStats)

	api := r.Group("/api")
	v1 := api.Group("/v1")
	v1.POST("/prefetch", handler.Prefetch)

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	return r
}

func ginZapLogger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("logger", l)

		start := time.Now()

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		l.Info("request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}
