package health

import (
	"context"
	"sync"
	"time"

	"github.com/undead2146/genhub-core/internal/domain"
)

// SystemHealthChecker aggregates component health for the service
type SystemHealthChecker struct {
	catalog domain.ManifestProvider
	cache   domain.ValidationCache

	// Health check configuration
	timeout   time.Duration
	startTime time.Time

	// Cached health status to avoid expensive checks on every request
	lastCheck   time.Time
	lastHealth  domain.SystemHealth
	cacheTTL    time.Duration
	healthMutex sync.RWMutex
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(catalog domain.ManifestProvider, cache domain.ValidationCache) *SystemHealthChecker {
	return &SystemHealthChecker{
		catalog:   catalog,
		cache:     cache,
		timeout:   5 * time.Second,
		cacheTTL:  30 * time.Second,
		startTime: time.Now(),
	}
}

// CheckHealth performs a comprehensive system health check
func (h *SystemHealthChecker) CheckHealth(ctx context.Context) domain.SystemHealth {
	h.healthMutex.Lock()
	defer h.healthMutex.Unlock()

	// Return cached result if still valid
	if time.Since(h.lastCheck) < h.cacheTTL {
		return h.lastHealth
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	now := time.Now()
	components := make(map[string]domain.HealthStatus)
	overallStatus := domain.HealthStatusHealthy

	catalogHealth := h.catalog.HealthCheck(checkCtx)
	components["catalog"] = catalogHealth
	overallStatus = h.aggregateStatus(overallStatus, catalogHealth.Status)

	cacheHealth := h.cache.HealthCheck(checkCtx)
	components["cache"] = cacheHealth
	overallStatus = h.aggregateStatus(overallStatus, cacheHealth.Status)

	systemHealth := domain.SystemHealth{
		Status:     overallStatus,
		Timestamp:  now,
		Components: components,
		Metrics:    h.collectSystemMetrics(checkCtx),
		Uptime:     now.Sub(h.startTime),
	}

	h.lastCheck = now
	h.lastHealth = systemHealth

	return systemHealth
}

// CheckComponent performs a health check on a specific component
func (h *SystemHealthChecker) CheckComponent(ctx context.Context, component string) domain.HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	switch component {
	case "catalog":
		return h.catalog.HealthCheck(checkCtx)
	case "cache":
		return h.cache.HealthCheck(checkCtx)
	default:
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Unknown component",
			Timestamp: time.Now(),
			Details: map[string]any{
				"component": component,
				"error":     "Component not found",
			},
		}
	}
}

// aggregateStatus determines the overall status based on component statuses
func (h *SystemHealthChecker) aggregateStatus(current, componentStatus string) string {
	// Priority: unhealthy > degraded > healthy
	statusPriority := map[string]int{
		domain.HealthStatusHealthy:   0,
		domain.HealthStatusDegraded:  1,
		domain.HealthStatusUnhealthy: 2,
	}

	if statusPriority[componentStatus] > statusPriority[current] {
		return componentStatus
	}
	return current
}

// collectSystemMetrics gathers system-wide metrics
func (h *SystemHealthChecker) collectSystemMetrics(ctx context.Context) map[string]any {
	metrics := make(map[string]any)

	if catalogStats := h.catalog.GetStats(ctx); catalogStats != nil {
		metrics["catalog"] = catalogStats
	}

	cacheStats := h.cache.Stats()
	metrics["cache"] = map[string]any{
		"hits":      cacheStats.Hits,
		"misses":    cacheStats.Misses,
		"size":      cacheStats.Size,
		"max_size":  cacheStats.MaxSize,
		"hit_ratio": cacheStats.HitRatio,
	}

	metrics["system"] = map[string]any{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now(),
	}

	return metrics
}

// GetDetailedHealth returns detailed health information for debugging
func (h *SystemHealthChecker) GetDetailedHealth(ctx context.Context) map[string]any {
	systemHealth := h.CheckHealth(ctx)

	detailed := map[string]any{
		"overall_status": systemHealth.Status,
		"timestamp":      systemHealth.Timestamp,
		"components":     systemHealth.Components,
		"metrics":        systemHealth.Metrics,
	}

	detailed["diagnostics"] = map[string]any{
		"health_check_timeout": h.timeout.String(),
		"cache_ttl":            h.cacheTTL.String(),
		"last_check_age":       time.Since(h.lastCheck).String(),
	}

	return detailed
}

// IsHealthy returns true if the system is healthy
func (h *SystemHealthChecker) IsHealthy(ctx context.Context) bool {
	health := h.CheckHealth(ctx)
	return health.Status == domain.HealthStatusHealthy
}
