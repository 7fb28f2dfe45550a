package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mantonx/cinelist/internal/api"
	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/middleware"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(api.ErrorMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	if s.cfg.Server.EnableCORS {
		r.Use(middleware.CORS(s.cfg.Server.AllowedOrigins))
	}

	apiGroup := r.Group("/api")
	s.setupHealthRoutes(apiGroup)

	if s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	s.registry.RegisterRoutes(r)
	s.setupStaticRoutes(r)
	return r
}

// setupHealthRoutes configures health check and status endpoints
func (s *Server) setupHealthRoutes(apiGroup *gin.RouterGroup) {
	apiGroup.GET("/health", s.handleHealth)
	apiGroup.GET("/db-status", s.handleDatabaseStatus)
}

// setupStaticRoutes serves the browser client from the static directory.
// Unknown GET paths outside /api fall back to index.html; anything else
// answers with the JSON not-found envelope.
func (s *Server) setupStaticRoutes(r *gin.Engine) {
	index := ""
	if dir := s.cfg.Server.StaticDir; dir != "" {
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			index = filepath.Join(dir, "index.html")
			r.Static("/js", filepath.Join(dir, "js"))
			r.Static("/css", filepath.Join(dir, "css"))
			r.StaticFile("/", index)
			logger.Info("Serving web client", "dir", dir)
		} else {
			logger.Warn("Web client not found, serving API only", "dir", dir)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		isPage := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if index != "" && isPage && path != "/api" && !strings.HasPrefix(path, "/api/") {
			c.File(index)
			return
		}
		api.RespondWithNotFound(c, "route", path)
	})
}
