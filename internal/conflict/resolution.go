package conflict

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/undead2146/genhub-core/internal/domain"
	"github.com/undead2146/genhub-core/internal/version"
)

// State is the lifecycle state of one resolution request.
// Pending -> Evaluating -> {Allowed | Blocked | Warned | AwaitingUserChoice |
// FlaggedForMerge}; every state is terminal except AwaitingUserChoice, which
// moves to Allowed or Blocked once the caller supplies a decision.
type State string

const (
	StatePending            State = "pending"
	StateEvaluating         State = "evaluating"
	StateAllowed            State = "allowed"
	StateBlocked            State = "blocked"
	StateWarned             State = "warned"
	StateAwaitingUserChoice State = "awaiting-user-choice"
	StateFlaggedForMerge    State = "flagged-for-merge"
)

// TriggeredConflict records which rule fired between which two identities
type TriggeredConflict struct {
	OwnerID     domain.ManifestID   `json:"owner_id"`
	CandidateID domain.ManifestID   `json:"candidate_id"`
	Rule        domain.ConflictRule `json:"rule"`
}

// Resolution is the outcome of evaluating one proposed activation set.
// The zero strategies never surface as errors: Block, Warn, and UserChoice
// are decision values carried in the state, not failures.
type Resolution struct {
	// ID identifies the resolution session so an AwaitingUserChoice
	// resolution can be matched with the caller's later decision.
	ID string `json:"id"`

	state State

	Conflict *TriggeredConflict `json:"conflict,omitempty"`
	Message  string             `json:"message,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`

	// DroppedID and KeptID are set by the prefer strategies
	DroppedID domain.ManifestID `json:"dropped_id,omitempty"`
	KeptID    domain.ManifestID `json:"kept_id,omitempty"`
}

// NewResolution creates a resolution session in the Pending state
func NewResolution() *Resolution {
	return &Resolution{
		ID:    uuid.New().String(),
		state: StatePending,
	}
}

// State returns the current lifecycle state
func (r *Resolution) State() State {
	return r.state
}

// IsAllowed reports whether the activation may proceed. Warned and
// FlaggedForMerge outcomes proceed; AwaitingUserChoice does not until the
// caller decides.
func (r *Resolution) IsAllowed() bool {
	switch r.state {
	case StateAllowed, StateWarned, StateFlaggedForMerge:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the resolution can still change state
func (r *Resolution) IsTerminal() bool {
	return r.state != StatePending && r.state != StateEvaluating && r.state != StateAwaitingUserChoice
}

// Decide supplies the caller's choice for an AwaitingUserChoice resolution,
// transitioning it to Allowed or Blocked. Deciding in any other state is a
// programming error.
func (r *Resolution) Decide(accept bool) error {
	if r.state != StateAwaitingUserChoice {
		return domain.NewAppError(domain.ErrInvalidInput,
			fmt.Sprintf("resolution %s is in state %s, not awaiting a decision", r.ID, r.state), 400, nil)
	}
	if accept {
		r.state = StateAllowed
		r.Message = "activation allowed by user decision"
	} else {
		r.state = StateBlocked
		r.Message = "activation rejected by user decision"
	}
	return nil
}

// Resolver evaluates every conflict rule across a proposed activation set
// and applies the configured resolution strategy of the first rule that
// fires. The rule's ConflictType is display metadata only and never changes
// which strategy branch is taken.
type Resolver struct {
	evaluator *Evaluator
}

// NewResolver creates a new conflict resolver
func NewResolver() *Resolver {
	return &Resolver{evaluator: NewEvaluator()}
}

// Evaluator returns the underlying rule evaluator
func (r *Resolver) Evaluator() *Evaluator {
	return r.evaluator
}

// Resolve checks every ordered pair of the proposed activation set. Callers
// list already-installed manifests before newly proposed ones; the prefer
// strategies rely on that ordering to identify the existing side. Only a
// malformed version string inside a range check is an error.
func (r *Resolver) Resolve(set []*domain.ContentManifest) (*Resolution, error) {
	res := NewResolution()
	res.state = StateEvaluating

	for i, owner := range set {
		for j, candidate := range set {
			if i == j {
				continue
			}
			rule, err := r.evaluator.FirstTriggered(owner, candidate)
			if err != nil {
				return nil, err
			}
			if rule == nil {
				continue
			}
			res.Conflict = &TriggeredConflict{
				OwnerID:     owner.ID,
				CandidateID: candidate.ID,
				Rule:        *rule,
			}
			return res, r.dispatch(res, rule, owner, candidate, i < j)
		}
	}

	res.state = StateAllowed
	res.Message = "no conflict rules triggered"
	return res, nil
}

// dispatch applies the triggered rule's strategy. ownerFirst tells the
// prefer strategies which side of the pair appeared earlier in the set and
// therefore counts as already installed.
func (r *Resolver) dispatch(res *Resolution, rule *domain.ConflictRule, owner, candidate *domain.ContentManifest, ownerFirst bool) error {
	reason := rule.Reason
	if reason == "" {
		reason = "declared incompatibility"
	}

	switch rule.ResolutionStrategy {
	case domain.ResolutionBlock:
		res.state = StateBlocked
		res.Message = fmt.Sprintf("%s conflicts with %s: %s", owner.ID, candidate.ID, reason)

	case domain.ResolutionWarn:
		res.state = StateWarned
		res.Message = fmt.Sprintf("%s conflicts with %s, proceeding with warning", owner.ID, candidate.ID)
		res.Warnings = append(res.Warnings, reason)

	case domain.ResolutionPreferNewer:
		cmp, err := version.Compare(owner.Version, candidate.Version)
		if err != nil {
			return err
		}
		kept, dropped := owner, candidate
		if cmp < 0 {
			kept, dropped = candidate, owner
		}
		res.state = StateAllowed
		res.KeptID = kept.ID
		res.DroppedID = dropped.ID
		res.Message = fmt.Sprintf("dropped %s in favor of newer %s", dropped.ID, kept.ID)

	case domain.ResolutionPreferExisting:
		kept, dropped := owner, candidate
		if !ownerFirst {
			kept, dropped = candidate, owner
		}
		res.state = StateAllowed
		res.KeptID = kept.ID
		res.DroppedID = dropped.ID
		res.Message = fmt.Sprintf("dropped %s in favor of existing %s", dropped.ID, kept.ID)

	case domain.ResolutionUserChoice:
		res.state = StateAwaitingUserChoice
		res.Message = fmt.Sprintf("%s conflicts with %s, awaiting user decision: %s", owner.ID, candidate.ID, reason)

	case domain.ResolutionMerge:
		res.state = StateFlaggedForMerge
		res.Message = fmt.Sprintf("%s and %s flagged for content merge", owner.ID, candidate.ID)

	default:
		// An unmapped strategy blocks rather than silently allowing.
		res.state = StateBlocked
		res.Message = fmt.Sprintf("unknown resolution strategy %q for conflict between %s and %s",
			rule.ResolutionStrategy, owner.ID, candidate.ID)
	}
	return nil
}
