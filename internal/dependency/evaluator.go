// Package dependency decides whether a manifest's stated dependencies are
// satisfied by a set of available manifests. "Not satisfied" is a normal
// outcome here, never an error: the evaluator reports booleans and missing
// identity lists and leaves acquisition policy to richer callers.
package dependency

import (
	"fmt"
	"slices"

	"github.com/undead2146/genhub-core/internal/domain"
	"github.com/undead2146/genhub-core/internal/version"
)

// Evaluator checks content dependencies against candidate manifests.
// It is stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates a new dependency evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Satisfies reports whether a candidate manifest satisfies a dependency.
// The candidate must carry the dependency's target id, its version must fall
// inside the declared constraints, its target game must be listed whenever
// CompatibleGameTypes is non-empty, and publisher constraints must hold.
// Unparseable candidate versions count as unsatisfied rather than erroring.
func (e *Evaluator) Satisfies(dep domain.ContentDependency, candidate *domain.ContentManifest) bool {
	if candidate == nil {
		return false
	}
	if !dep.ID.Equals(candidate.ID) {
		return false
	}
	if !e.versionSatisfied(dep, candidate.Version) {
		return false
	}
	if len(dep.CompatibleGameTypes) > 0 && !slices.Contains(dep.CompatibleGameTypes, candidate.TargetGame) {
		return false
	}
	return e.publisherSatisfied(dep, candidate.Publisher)
}

// versionSatisfied applies the dependency's version constraints in order of
// specificity: exact pin, compatibility allow-list, then the inclusive
// [MinVersion, MaxVersion] window. No constraints means any version.
func (e *Evaluator) versionSatisfied(dep domain.ContentDependency, candidateVersion string) bool {
	if dep.ExactVersion != "" {
		ok, err := version.Equal(candidateVersion, dep.ExactVersion)
		return err == nil && ok
	}
	if len(dep.CompatibleVersions) > 0 {
		for _, compatible := range dep.CompatibleVersions {
			if ok, err := version.Equal(candidateVersion, compatible); err == nil && ok {
				return true
			}
		}
		return false
	}
	if dep.MinVersion == "" && dep.MaxVersion == "" {
		return true
	}
	ok, err := version.InWindow(candidateVersion, dep.MinVersion, dep.MaxVersion)
	return err == nil && ok
}

// publisherSatisfied applies the dependency's publisher constraints.
// StrictPublisher demands an exact match on PublisherType; otherwise the
// candidate must be in RequiredPublisherTypes when that list is non-empty
// and must never be in IncompatiblePublisherTypes.
func (e *Evaluator) publisherSatisfied(dep domain.ContentDependency, publisher domain.PublisherInfo) bool {
	if dep.StrictPublisher {
		return publisher.Type == dep.PublisherType
	}
	if len(dep.RequiredPublisherTypes) > 0 && !slices.Contains(dep.RequiredPublisherTypes, publisher.Type) {
		return false
	}
	return !slices.Contains(dep.IncompatiblePublisherTypes, publisher.Type)
}

// ValidateDependencies reports whether every load-bearing dependency of the
// manifest resolves against the available set. Suggest, auto-install, and
// optional dependencies never block the result. An empty dependency list
// trivially validates.
func (e *Evaluator) ValidateDependencies(manifest *domain.ContentManifest, available map[domain.ManifestID]*domain.ContentManifest) bool {
	if manifest == nil {
		return false
	}
	for _, dep := range manifest.Dependencies {
		if !dep.IsLoadBearing() {
			continue
		}
		if !e.Satisfies(dep, available[dep.ID]) {
			return false
		}
	}
	return true
}

// MissingDependencies returns the exact list of load-bearing dependency ids
// that do not resolve against the available set.
func (e *Evaluator) MissingDependencies(manifest *domain.ContentManifest, available map[domain.ManifestID]*domain.ContentManifest) []domain.ManifestID {
	if manifest == nil {
		return nil
	}
	var missing []domain.ManifestID
	for _, dep := range manifest.Dependencies {
		if !dep.IsLoadBearing() {
			continue
		}
		if !e.Satisfies(dep, available[dep.ID]) {
			missing = append(missing, dep.ID)
		}
	}
	return missing
}

// Status describes the outcome of checking one dependency
type Status struct {
	ID        domain.ManifestID      `json:"id"`
	Behavior  domain.InstallBehavior `json:"behavior,omitempty"`
	Optional  bool                   `json:"optional,omitempty"`
	Satisfied bool                   `json:"satisfied"`
	Advisory  bool                   `json:"advisory"`
	Message   string                 `json:"message,omitempty"`
}

// Report contains the results of checking all of a manifest's dependencies.
// Advisory entries (suggest / auto-install / optional) are included for
// display but never affect AllSatisfied.
type Report struct {
	AllSatisfied bool                `json:"all_satisfied"`
	Statuses     []Status            `json:"statuses"`
	Missing      []domain.ManifestID `json:"missing,omitempty"`
}

// CheckDependencies evaluates every dependency of the manifest and returns a
// full report, with load-bearing failures listed in Missing.
func (e *Evaluator) CheckDependencies(manifest *domain.ContentManifest, available map[domain.ManifestID]*domain.ContentManifest) *Report {
	report := &Report{AllSatisfied: true}
	if manifest == nil {
		report.AllSatisfied = false
		return report
	}

	report.Statuses = make([]Status, 0, len(manifest.Dependencies))
	for _, dep := range manifest.Dependencies {
		satisfied := e.Satisfies(dep, available[dep.ID])
		status := Status{
			ID:        dep.ID,
			Behavior:  dep.InstallBehavior,
			Optional:  dep.IsOptional,
			Satisfied: satisfied,
			Advisory:  !dep.IsLoadBearing(),
		}

		switch {
		case satisfied:
			status.Message = "dependency satisfied"
		case status.Advisory:
			status.Message = fmt.Sprintf("advisory dependency %s is not available", dep.ID)
		default:
			status.Message = fmt.Sprintf("required dependency %s is missing", dep.ID)
			report.AllSatisfied = false
			report.Missing = append(report.Missing, dep.ID)
		}
		report.Statuses = append(report.Statuses, status)
	}
	return report
}
