package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/undead2146/genhub-core/internal/domain"
)

// StoreConfig holds configuration for the Store
type StoreConfig struct {
	ManifestDir string
}

// Store implements the domain.ManifestProvider interface with dual indexing:
// a map keyed by ManifestID for lookups and an ordered list for listing.
// Loaded manifests are immutable snapshots; a reload swaps the whole index.
type Store struct {
	mu           sync.RWMutex
	manifests    map[domain.ManifestID]*domain.ContentManifest
	manifestList []*domain.ContentManifest
	config       StoreConfig

	parser  *Parser
	scanner *Scanner

	loadErrors []LoadError
	loadedAt   time.Time
}

// NewStore creates a new Store instance
func NewStore(config StoreConfig) *Store {
	return &Store{
		manifests:    make(map[domain.ManifestID]*domain.ContentManifest),
		manifestList: make([]*domain.ContentManifest, 0),
		config:       config,
		parser:       NewParser(),
		scanner:      NewScanner(config.ManifestDir),
	}
}

// Load scans the manifest directory and rebuilds the index. Per-file load
// errors are collected and logged without aborting the scan; only a failed
// directory walk or cancellation is fatal.
func (s *Store) Load(ctx context.Context) error {
	paths, err := s.scanner.Scan(ctx)
	if err != nil {
		return domain.NewAppErrorWithCause(domain.ErrInternal,
			"failed to scan manifest directory", 500, err,
			map[string]any{"dir": s.config.ManifestDir})
	}

	manifests := make(map[domain.ManifestID]*domain.ContentManifest, len(paths))
	manifestList := make([]*domain.ContentManifest, 0, len(paths))
	var loadErrors []LoadError
	now := time.Now()

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return domain.NewAppErrorWithCause(domain.ErrTimeout,
				"manifest load cancelled", 408, ctx.Err(), nil)
		default:
		}

		manifest, loadErr := s.parser.ParseFile(path)
		if loadErr != nil {
			log.Warn().Str("file", loadErr.FilePath).Str("error", loadErr.Error).Msg("Skipping invalid manifest")
			loadErrors = append(loadErrors, *loadErr)
			continue
		}
		manifest.LoadedAt = now

		if existing, ok := manifests[manifest.ID]; ok {
			log.Warn().
				Str("id", manifest.ID.String()).
				Str("kept", existing.FilePath).
				Str("skipped", manifest.FilePath).
				Msg("Duplicate manifest id, keeping first occurrence")
			loadErrors = append(loadErrors, LoadError{
				FilePath: manifest.FilePath,
				Error:    "duplicate manifest id " + manifest.ID.String(),
			})
			continue
		}
		manifests[manifest.ID] = manifest
		manifestList = append(manifestList, manifest)
	}

	s.mu.Lock()
	s.manifests = manifests
	s.manifestList = manifestList
	s.loadErrors = loadErrors
	s.loadedAt = now
	s.mu.Unlock()

	log.Info().
		Int("manifests", len(manifestList)).
		Int("errors", len(loadErrors)).
		Str("dir", s.config.ManifestDir).
		Msg("Manifest catalog loaded")
	return nil
}

// Add registers a manifest directly, bypassing the file scan. Used by tests
// and by callers that assemble manifests in memory.
func (s *Store) Add(manifest *domain.ContentManifest) error {
	if manifest == nil || manifest.ID.IsZero() {
		return domain.NewAppError(domain.ErrManifestInvalid,
			"manifest must carry a valid id", 422, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.ID]; exists {
		return domain.NewAppError(domain.ErrConflict,
			"manifest "+manifest.ID.String()+" is already registered", 409, nil)
	}
	s.manifests[manifest.ID] = manifest
	s.manifestList = append(s.manifestList, manifest)
	return nil
}

// GetManifest returns the manifest registered under the given id
func (s *Store) GetManifest(ctx context.Context, id domain.ManifestID) (*domain.ContentManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, ok := s.manifests[id]
	if !ok {
		return nil, domain.NewAppError(domain.ErrNotFound,
			"manifest "+id.String()+" is not in the catalog", 404, nil)
	}
	return manifest, nil
}

// GetAllManifests returns every loaded manifest in load order
func (s *Store) GetAllManifests(ctx context.Context) ([]*domain.ContentManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ContentManifest, len(s.manifestList))
	copy(out, s.manifestList)
	return out, nil
}

// AvailableSet returns the id-keyed view the dependency evaluator consumes
func (s *Store) AvailableSet(ctx context.Context) (map[domain.ManifestID]*domain.ContentManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ManifestID]*domain.ContentManifest, len(s.manifests))
	for id, m := range s.manifests {
		out[id] = m
	}
	return out, nil
}

// LoadErrors returns per-file errors from the most recent load
func (s *Store) LoadErrors() []LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LoadError, len(s.loadErrors))
	copy(out, s.loadErrors)
	return out
}

// HealthCheck reports catalog health for the system health checker
func (s *Store) HealthCheck(ctx context.Context) domain.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := domain.HealthStatusHealthy
	message := "Catalog is operating normally"
	if len(s.loadErrors) > 0 {
		status = domain.HealthStatusDegraded
		message = "Some manifest files failed to load"
	}

	return domain.HealthStatus{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"manifests":   len(s.manifestList),
			"load_errors": len(s.loadErrors),
			"loaded_at":   s.loadedAt,
		},
		Timestamp: time.Now(),
	}
}

// GetStats returns catalog statistics for monitoring
func (s *Store) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[string]int)
	for _, m := range s.manifestList {
		byType[string(m.ContentType)]++
	}
	return map[string]any{
		"manifest_count": len(s.manifestList),
		"by_type":        byType,
		"load_errors":    len(s.loadErrors),
		"loaded_at":      s.loadedAt,
	}
}
