// Package service wraps identifier generation and validation behind a
// uniform result type. Nothing in this package returns an error or panics
// across the boundary: callers branch on Result.Success and read the
// structured code and message instead of handling exceptions.
package service

import (
	"time"

	"github.com/undead2146/genhub-core/internal/domain"
	"github.com/undead2146/genhub-core/internal/identity"
)

// Result is the uniform success/failure envelope returned by the facade
type Result struct {
	Success bool   `json:"success"`
	Value   string `json:"value,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func success(value string) Result {
	return Result{Success: true, Value: value}
}

func failure(err error) Result {
	res := Result{Success: false, Code: domain.ErrorCode(err)}
	if appErr, ok := err.(*domain.AppError); ok {
		res.Message = appErr.Message
	} else if err != nil {
		res.Message = err.Error()
	}
	return res
}

// IdentityService exposes generation and validation as result-typed
// operations, with an LRU cache in front of validation since ids are
// re-validated on every catalog lookup.
type IdentityService struct {
	cache domain.ValidationCache
}

// NewIdentityService creates an IdentityService. The cache may be nil, in
// which case every validation runs the grammar directly.
func NewIdentityService(cache domain.ValidationCache) *IdentityService {
	return &IdentityService{cache: cache}
}

// Validate checks a candidate string against the identifier grammar.
// On failure the result message names the exact rule that was violated.
func (s *IdentityService) Validate(candidate string) Result {
	outcome := s.validateOutcome(candidate)
	if !outcome.Valid {
		return Result{Success: false, Code: domain.ErrInvalidFormat, Message: outcome.Reason}
	}
	return success(outcome.ID.String())
}

// ValidateOutcome returns the full cached validation outcome, including the
// parsed id for valid candidates.
func (s *IdentityService) ValidateOutcome(candidate string) *domain.ValidationOutcome {
	return s.validateOutcome(candidate)
}

func (s *IdentityService) validateOutcome(candidate string) *domain.ValidationOutcome {
	if s.cache != nil {
		if cached, ok := s.cache.Get(candidate); ok {
			return cached
		}
	}

	outcome := &domain.ValidationOutcome{Timestamp: time.Now()}
	id, err := domain.ParseManifestID(candidate)
	if err != nil {
		outcome.Valid = false
		if appErr, ok := err.(*domain.AppError); ok {
			outcome.Reason = appErr.Message
		} else {
			outcome.Reason = err.Error()
		}
	} else {
		outcome.Valid = true
		outcome.ID = id
	}

	if s.cache != nil {
		s.cache.Set(candidate, outcome)
	}
	return outcome
}

// GeneratePublisherContent builds a publisher-content identifier
func (s *IdentityService) GeneratePublisherContent(publisher string, contentType domain.ContentType, contentName string, userVersion int) Result {
	id, err := identity.PublisherContentID(publisher, contentType, contentName, userVersion)
	if err != nil {
		return failure(err)
	}
	return success(id.String())
}

// GenerateGameInstallation builds a game-installation identifier
func (s *IdentityService) GenerateGameInstallation(installation *domain.GameInstallation, game domain.GameType) Result {
	id, err := identity.GameInstallationID(installation, game)
	if err != nil {
		return failure(err)
	}
	return success(id.String())
}

// GenerateRelease builds an identifier for an externally hosted release
func (s *IdentityService) GenerateRelease(owner, repository, tag string, contentType domain.ContentType) Result {
	id, err := identity.ReleaseID(owner, repository, tag, contentType)
	if err != nil {
		return failure(err)
	}
	return success(id.String())
}

// CacheStats exposes validation cache statistics for the metrics endpoint
func (s *IdentityService) CacheStats() domain.CacheStats {
	if s.cache == nil {
		return domain.CacheStats{}
	}
	return s.cache.Stats()
}
