// Package activation combines dependency validation and conflict resolution
// into the single verdict the workspace assembler consumes: whether a
// proposed set of manifests can be activated together, and if not, why.
package activation

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/undead2146/genhub-core/internal/conflict"
	"github.com/undead2146/genhub-core/internal/dependency"
	"github.com/undead2146/genhub-core/internal/domain"
)

// Verdict is the combined outcome of an activation request
type Verdict string

const (
	VerdictAllowed         Verdict = "allowed"
	VerdictBlocked         Verdict = "blocked"
	VerdictNeedsUserChoice Verdict = "needs-user-choice"
)

// Result reports everything the caller needs to act on an activation
// request: the verdict, the exact missing dependency ids per manifest,
// non-blocking warnings, and any manifest dropped by a prefer strategy.
type Result struct {
	Verdict    Verdict              `json:"verdict"`
	Resolution *conflict.Resolution `json:"resolution,omitempty"`

	MissingDependencies map[domain.ManifestID][]domain.ManifestID `json:"missing_dependencies,omitempty"`
	Warnings            []string                                  `json:"warnings,omitempty"`
	DroppedID           domain.ManifestID                         `json:"dropped_id,omitempty"`
	Message             string                                    `json:"message,omitempty"`

	// ActiveSet is the manifest set that survives resolution (the proposed
	// set minus any manifest dropped by a prefer strategy). Empty when the
	// activation is blocked.
	ActiveSet []*domain.ContentManifest `json:"-"`
}

// Validator validates proposed activation sets
type Validator struct {
	dependencies *dependency.Evaluator
	conflicts    *conflict.Resolver
}

// NewValidator creates a new activation validator
func NewValidator() *Validator {
	return &Validator{
		dependencies: dependency.NewEvaluator(),
		conflicts:    conflict.NewResolver(),
	}
}

// Validate checks a proposed activation set against the available catalog.
// Every load-bearing dependency of every proposed manifest must resolve
// against the union of the available set and the proposal itself, and no
// blocking conflict rule may fire between any pair. The only true error is
// a malformed version string inside a conflict range check.
func (v *Validator) Validate(ctx context.Context, proposed []*domain.ContentManifest, available map[domain.ManifestID]*domain.ContentManifest) (*Result, error) {
	result := &Result{Verdict: VerdictAllowed}

	// Proposed manifests can satisfy each other's dependencies.
	combined := make(map[domain.ManifestID]*domain.ContentManifest, len(available)+len(proposed))
	for id, m := range available {
		combined[id] = m
	}
	for _, m := range proposed {
		combined[m.ID] = m
	}

	for _, m := range proposed {
		report := v.dependencies.CheckDependencies(m, combined)
		if !report.AllSatisfied {
			if result.MissingDependencies == nil {
				result.MissingDependencies = make(map[domain.ManifestID][]domain.ManifestID)
			}
			result.MissingDependencies[m.ID] = report.Missing
		}
	}
	if len(result.MissingDependencies) > 0 {
		result.Verdict = VerdictBlocked
		result.Message = "activation rejected: required dependencies are missing"
		log.Debug().
			Int("manifests", len(proposed)).
			Int("unresolved", len(result.MissingDependencies)).
			Msg("Activation blocked on missing dependencies")
		return result, nil
	}

	resolution, err := v.conflicts.Resolve(proposed)
	if err != nil {
		return nil, err
	}
	result.Resolution = resolution
	result.Warnings = resolution.Warnings
	result.Message = resolution.Message

	switch resolution.State() {
	case conflict.StateBlocked:
		result.Verdict = VerdictBlocked
	case conflict.StateAwaitingUserChoice:
		result.Verdict = VerdictNeedsUserChoice
	default:
		result.Verdict = VerdictAllowed
		result.DroppedID = resolution.DroppedID
		result.ActiveSet = v.activeSet(proposed, resolution.DroppedID)
	}
	return result, nil
}

// ApplyDecision completes a needs-user-choice result with the caller's
// decision and returns the final verdict.
func (v *Validator) ApplyDecision(result *Result, accept bool) (Verdict, error) {
	if result == nil || result.Resolution == nil {
		return VerdictBlocked, domain.NewAppError(domain.ErrInvalidInput,
			"result carries no pending resolution", 400, nil)
	}
	if err := result.Resolution.Decide(accept); err != nil {
		return result.Verdict, err
	}
	if result.Resolution.IsAllowed() {
		result.Verdict = VerdictAllowed
	} else {
		result.Verdict = VerdictBlocked
	}
	result.Message = result.Resolution.Message
	return result.Verdict, nil
}

func (v *Validator) activeSet(proposed []*domain.ContentManifest, dropped domain.ManifestID) []*domain.ContentManifest {
	if dropped.IsZero() {
		return proposed
	}
	active := make([]*domain.ContentManifest, 0, len(proposed))
	for _, m := range proposed {
		if !m.ID.Equals(dropped) {
			active = append(active, m)
		}
	}
	return active
}
