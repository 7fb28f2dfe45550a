package modulemanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mantonx/cinelist/internal/logger"
)

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	loaded          []Module
	mu              sync.RWMutex
	initialized     bool
}

// Registry is the global module registry
var Registry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules:         make(map[string]Module),
		disabledModules: make(map[string]bool),
	}
}

// Register adds a module to the global registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module registered after initialization", "module", m.ID())
	}

	r.modules[m.ID()] = m
	logger.Info("Module registered", "module", m.ID(), "name", m.Name())
}

// LoadAll initializes all modules in the global registry
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll migrates and initializes all enabled modules in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module system already initialized")
		return nil
	}

	enabledModules := make(map[string]Module)
	for id, module := range r.modules {
		if r.disabledModules[id] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", id)
			}
			logger.Warn("Skipping disabled module", "module", id)
			continue
		}
		enabledModules[id] = module
	}

	initOrder, err := initializationOrder(enabledModules)
	if err != nil {
		return fmt.Errorf("failed to determine initialization order: %w", err)
	}

	logger.Info("Loading modules", "count", len(initOrder))
	for i, module := range initOrder {
		logger.Debug("Initializing module", "position", i+1, "module", module.ID())

		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}

		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}

		logger.Info("Module loaded", "module", module.ID())
	}

	r.loaded = initOrder
	r.initialized = true
	return nil
}

// DisableModule marks a module as disabled in the global registry
func DisableModule(id string) {
	Registry.DisableModule(id)
}

// DisableModule marks a module as disabled. Core modules cannot be disabled.
func (r *ModuleRegistry) DisableModule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[id]
	if !exists {
		logger.Warn("Attempted to disable non-existent module", "module", id)
		return
	}

	if module.Core() {
		logger.Error("Cannot disable core module", "module", id)
		return
	}

	r.disabledModules[id] = true
	logger.Info("Module disabled", "module", id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	module, exists := r.modules[id]
	return module, exists
}

// ListModules returns all registered modules sorted by id
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID() < modules[j].ID() })
	return modules
}

// RegisterRoutes registers routes for all loaded modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.loaded {
		if routeRegistrar, ok := module.(RouteRegistrar); ok {
			logger.Debug("Registering routes", "module", module.ID())
			routeRegistrar.RegisterRoutes(router)
		}
	}
}

// HealthCheck collects the status of every loaded module that reports one
func (r *ModuleRegistry) HealthCheck(ctx context.Context) map[string]HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make(map[string]HealthStatus)
	for _, module := range r.loaded {
		checker, ok := module.(HealthChecker)
		if !ok {
			continue
		}
		status := checker.HealthCheck(ctx)
		if status.LastChecked.IsZero() {
			status.LastChecked = time.Now()
		}
		statuses[module.ID()] = status
	}
	return statuses
}

// Shutdown stops loaded modules in reverse initialization order
func (r *ModuleRegistry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.loaded) - 1; i >= 0; i-- {
		module := r.loaded[i]
		if s, ok := module.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				logger.Error("Module shutdown failed", "module", module.ID(), "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", module.ID(), err))
			}
		}
	}
	r.loaded = nil
	r.initialized = false
	return errors.Join(errs...)
}
