// Package server assembles the HTTP surface: middleware, health and
// metrics endpoints, and the routes contributed by modules.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
)

// Server owns the router and the listening HTTP server
type Server struct {
	cfg        *config.Config
	db         *gorm.DB
	registry   *modulemanager.ModuleRegistry
	router     *gin.Engine
	httpServer *http.Server
}

// New builds the router for already loaded modules
func New(cfg *config.Config, db *gorm.DB, registry *modulemanager.ModuleRegistry) *Server {
	s := &Server{
		cfg:      cfg,
		db:       db,
		registry: registry,
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Router returns the configured gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then stops the modules
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if err := s.registry.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("module shutdown: %w", err))
	}
	return errors.Join(errs...)
}
