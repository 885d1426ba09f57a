package domain

import (
	"context"
	"time"
)

// ManifestProvider defines the contract for the manifest cache/lookup
// collaborator: it supplies loaded ContentManifest instances keyed by
// ManifestID. The evaluators treat every returned manifest as an immutable
// snapshot.
type ManifestProvider interface {
	GetManifest(ctx context.Context, id ManifestID) (*ContentManifest, error)
	GetAllManifests(ctx context.Context) ([]*ContentManifest, error)
	AvailableSet(ctx context.Context) (map[ManifestID]*ContentManifest, error)

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
	GetStats(ctx context.Context) map[string]any
}

// ContentSource supplies publisher provenance for discovered content.
// Implemented by the (out-of-scope) discovery layer.
type ContentSource interface {
	PublisherType(ctx context.Context, publisher string) PublisherType
	SourceName() string
}

// ValidationCache defines the contract for caching identifier validation
// outcomes. Validation is pure, so cached entries never go stale.
type ValidationCache interface {
	Get(key string) (*ValidationOutcome, bool)
	Set(key string, outcome *ValidationOutcome)
	Invalidate(key string)
	Clear()
	Stats() CacheStats

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
}

// ValidationOutcome is a cached result of validating one candidate string
type ValidationOutcome struct {
	ID        ManifestID `json:"id,omitempty"`
	Valid     bool       `json:"valid"`
	Reason    string     `json:"reason,omitempty"`
	CacheHit  bool       `json:"cache_hit"`
	Timestamp time.Time  `json:"timestamp"`
}

// HealthChecker defines the interface for system health monitoring
type HealthChecker interface {
	CheckHealth(ctx context.Context) SystemHealth
	CheckComponent(ctx context.Context, component string) HealthStatus
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status    string         `json:"status"` // "healthy", "unhealthy", "degraded"
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Health status constants
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusDegraded  = "degraded"
)

// SystemHealth represents overall system health
type SystemHealth struct {
	Status     string                  `json:"status"`
	Timestamp  time.Time               `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
	Metrics    map[string]any          `json:"metrics,omitempty"`
	Uptime     time.Duration           `json:"uptime"`
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Size     int     `json:"size"`
	MaxSize  int     `json:"max_size"`
	HitRatio float64 `json:"hit_ratio"`
}
