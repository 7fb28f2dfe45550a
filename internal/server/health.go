package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/mantonx/cinelist/internal/database"
	"github.com/mantonx/cinelist/internal/modules/modulemanager"
)

const healthTimeout = 2 * time.Second

// SystemStats is a host snapshot attached to the health response
type SystemStats struct {
	Goroutines    int     `json:"goroutines"`
	MemoryPercent float64 `json:"memory_percent,omitempty"`
	MemoryUsedMB  float64 `json:"memory_used_mb,omitempty"`
	Load1         float64 `json:"load_1,omitempty"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status   modulemanager.HealthState             `json:"status"`
	Database string                                `json:"database"`
	Modules  map[string]modulemanager.HealthStatus `json:"modules"`
	System   SystemStats                           `json:"system"`
	Time     time.Time                             `json:"time"`
}

// handleHealth reports 200 while the database answers, 503 otherwise.
// Degraded modules do not fail the check.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:   modulemanager.HealthStateHealthy,
		Database: "ok",
		Modules:  s.registry.HealthCheck(ctx),
		System:   collectSystemStats(ctx),
		Time:     time.Now().UTC(),
	}

	if err := database.Ping(ctx, s.db); err != nil {
		resp.Status = modulemanager.HealthStateUnhealthy
		resp.Database = err.Error()
	} else {
		for _, status := range resp.Modules {
			if status.Status == modulemanager.HealthStateUnhealthy {
				resp.Status = modulemanager.HealthStateUnhealthy
				break
			}
			if status.Status == modulemanager.HealthStateDegraded {
				resp.Status = modulemanager.HealthStateDegraded
			}
		}
	}

	code := http.StatusOK
	if resp.Status == modulemanager.HealthStateUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func collectSystemStats(ctx context.Context) SystemStats {
	stats := SystemStats{Goroutines: runtime.NumGoroutine()}

	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsedMB = float64(memStats.Used) / (1024 * 1024)
	}
	if loadStats, err := load.AvgWithContext(ctx); err == nil {
		stats.Load1 = loadStats.Load1
	}
	return stats
}

// handleDatabaseStatus exposes connection pool statistics
func (s *Server) handleDatabaseStatus(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	stats := sqlDB.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"type":                 s.cfg.Database.Type,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": stats.MaxOpenConnections,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	})
}
