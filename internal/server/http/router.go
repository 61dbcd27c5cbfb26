package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"album/internal/asset"
	"album/internal/logging"
	"album/internal/observability"
)

// RouterOptions controls transport-level behaviour.
type RouterOptions struct {
	Debug          bool
	AllowedOrigins []string
}

// NewRouter builds the gin engine with all album endpoints registered.
func NewRouter(manager *asset.Manager, metrics *observability.Metrics, opts RouterOptions) http.Handler {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 || (len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	engine.Use(cors.New(corsConfig))

	handler := NewAlbumHandler(manager, logging.NewComponentLogger("AlbumHandler"))

	api := engine.Group("/api/album")
	api.GET("/health", handler.HandleHealth)
	api.POST("/upload", handler.HandleUpload)
	api.GET("/list", handler.HandleList)
	api.DELETE("/delete/:id", handler.HandleDelete)

	if metrics != nil {
		engine.GET("/metrics", metrics.Handler())
	}

	return engine
}
