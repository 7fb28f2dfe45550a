// Package catalogmodule wires the movie favorites catalog into the module
// system: persistence, the TMDb client, the reconciliation service and its
// HTTP routes.
package catalogmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mantonx/cinelist/internal/config"
	"github.com/mantonx/cinelist/internal/database"
	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/api"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/repository"
	"github.com/mantonx/cinelist/internal/modules/catalogmodule/service"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
	"github.com/mantonx/cinelist/internal/tmdb"
)

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Movie Catalog"
)

var (
	_ service.MovieStore      = (*repository.MovieRepository)(nil)
	_ service.ExternalCatalog = (*tmdb.Client)(nil)
	_ api.CatalogService      = (*service.FavoritesService)(nil)
)

// Module implements the catalog functionality as a module
type Module struct {
	tmdbConfig config.TMDbConfig
	db         *gorm.DB

	repo    *repository.MovieRepository
	client  *tmdb.Client
	service *service.FavoritesService
	handler *api.Handler
}

// NewModule creates the catalog module for the given TMDb settings
func NewModule(tmdbConfig config.TMDbConfig) *Module {
	return &Module{tmdbConfig: tmdbConfig}
}

// Register registers the catalog module with the global module system
func Register(tmdbConfig config.TMDbConfig) *Module {
	m := NewModule(tmdbConfig)
	modulemanager.Register(m)
	return m
}

// ID returns the unique module identifier
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name
func (m *Module) Name() string {
	return ModuleName
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return true
}

// Migrate creates or updates the movies table
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("Migrating catalog database schema")

	m.db = db
	m.repo = repository.NewMovieRepository(db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate catalog models: %w", err)
	}
	return nil
}

// Init builds the service graph. Migrate must run first.
func (m *Module) Init() error {
	if m.repo == nil {
		return fmt.Errorf("catalog module initialized before migration")
	}

	if m.tmdbConfig.APIKey == "" {
		logger.Warn("TMDb API key not configured; external catalog calls will fail")
	}

	m.client = tmdb.NewClient(m.tmdbConfig, logger.Named("tmdb"))
	m.service = service.NewFavoritesService(m.repo, m.client, logger.Named("catalog"))
	m.handler = api.NewHandler(m.service)

	logger.Info("Catalog module initialized", []logger.Field{
		logger.String("tmdb_base_url", m.tmdbConfig.BaseURL),
		logger.String("language", m.tmdbConfig.Language),
		logger.Bool("tmdb_configured", m.tmdbConfig.APIKey != ""),
	})
	return nil
}

// RegisterRoutes registers the /api/movies routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	if m.handler == nil {
		logger.Error("Catalog routes requested before initialization")
		return
	}
	api.RegisterRoutes(router, m.handler)
}

// HealthCheck reports whether the catalog store answers
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.HealthStatus{
		Status:      modulemanager.HealthStateHealthy,
		LastChecked: time.Now(),
		Details: map[string]interface{}{
			"tmdb_configured": m.tmdbConfig.APIKey != "",
		},
	}

	if m.db == nil {
		status.Status = modulemanager.HealthStateUnknown
		status.Message = "not migrated"
		return status
	}

	if err := database.Ping(ctx, m.db); err != nil {
		status.Status = modulemanager.HealthStateUnhealthy
		status.Message = err.Error()
		return status
	}

	if m.tmdbConfig.APIKey == "" {
		status.Status = modulemanager.HealthStateDegraded
		status.Message = "TMDb API key not configured"
	}
	return status
}
