// Package conflict decides whether manifests in a proposed activation set
// violate declared incompatibilities, and which resolution strategy applies.
package conflict

import (
	"github.com/undead2146/genhub-core/internal/domain"
	"github.com/undead2146/genhub-core/internal/version"
)

// Evaluator checks conflict rules against candidate identities.
// It is stateless and safe for concurrent use.
type Evaluator struct{}

// NewEvaluator creates a new conflict evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// IsTriggered reports whether a rule fires against a candidate identity.
// A rule triggers when its conflicting id equals the candidate id and the
// candidate version satisfies ConflictVersionRange; an empty range matches
// any version. A malformed range or version is a true error, distinct from
// "not triggered".
func (e *Evaluator) IsTriggered(rule domain.ConflictRule, candidateID domain.ManifestID, candidateVersion string) (bool, error) {
	if !rule.ConflictingContentID.Equals(candidateID) {
		return false, nil
	}
	if rule.ConflictVersionRange == "" {
		return true, nil
	}
	// A rule constrained to a version range cannot fire against content
	// that declares no version at all.
	if candidateVersion == "" {
		return false, nil
	}
	return version.SatisfiesConstraint(candidateVersion, rule.ConflictVersionRange)
}

// FirstTriggered scans a manifest's conflict rules in declaration order and
// returns the first rule that fires against the candidate, or nil.
func (e *Evaluator) FirstTriggered(owner *domain.ContentManifest, candidate *domain.ContentManifest) (*domain.ConflictRule, error) {
	if owner == nil || candidate == nil {
		return nil, nil
	}
	for i := range owner.ConflictRules {
		rule := owner.ConflictRules[i]
		triggered, err := e.IsTriggered(rule, candidate.ID, candidate.Version)
		if err != nil {
			return nil, err
		}
		if triggered {
			return &rule, nil
		}
	}
	return nil, nil
}
