// Package server is the reference document backend: it lists public PDFs,
// accepts uploads under a per-client daily quota and serves stored files.
package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/blob"
	"github.com/notepid/pdf24/internal/catalog"
	"github.com/notepid/pdf24/internal/config"
	"github.com/notepid/pdf24/internal/quota"
)

// Server holds the backend dependencies.
type Server struct {
	cfg     config.ServerConfig
	docs    *catalog.Repo
	blobs   blob.Storage
	quota   *quota.Limiter
	log     *zap.Logger
	metrics *metrics
	reg     *prometheus.Registry
}

// New wires a server. A nil registry gets a fresh one.
func New(cfg config.ServerConfig, docs *catalog.Repo, blobs blob.Storage, log *zap.Logger, reg *prometheus.Registry) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		docs:    docs,
		blobs:   blobs,
		quota:   quota.New(cfg.DailyQuota),
		log:     log,
		metrics: m,
		reg:     reg,
	}, nil
}

// Router builds the gin engine with every route and middleware.
func (s *Server) Router() *gin.Engine {
	switch strings.ToLower(s.cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestLogger(s.log.Named("http")))
	r.Use(recovery(s.log))
	r.Use(s.metrics.handler())
	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	r.GET("/public", s.listPublic)
	r.POST("/upload", s.uploadPDF)
	r.GET("/d/:id", s.download)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
