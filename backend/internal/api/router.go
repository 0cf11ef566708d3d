package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentigraph/backend/internal/constants"
	"sentigraph/backend/internal/graph"
	"sentigraph/backend/pkg/config"
)

// Server holds the HTTP dependencies
type Server struct {
	graphs  *graph.Manager
	metrics http.Handler
	log     *zap.Logger
}

// NewRouter builds the gin engine. A nil metrics handler leaves /metrics unrouted.
func NewRouter(cfg *config.Config, graphs *graph.Manager, metrics http.Handler, log *zap.Logger) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	// Node keys may carry escaped slashes; match on the raw path and unescape the param.
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors(cfg.AllowedOrigins))

	s := &Server{graphs: graphs, metrics: metrics, log: log}

	router.GET("/health", s.health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	api := router.Group(constants.APIPrefix)
	{
		api.POST("/graph/ingest", s.ingest)
		api.GET("/graph", s.snapshot)
		api.GET("/graph/nodes/:id", s.node)
		api.GET("/graph/nodes/:id/neighbors", s.neighbors)
	}

	return router
}
