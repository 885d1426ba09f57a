package conflict

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undead2146/genhub-core/internal/domain"
)

func withRule(id domain.ManifestID, version string, rules ...domain.ConflictRule) *domain.ContentManifest {
	return &domain.ContentManifest{
		ID:            id,
		Name:          "fixture",
		Version:       version,
		ConflictRules: rules,
	}
}

func TestResolve_NoConflicts(t *testing.T) {
	r := NewResolver()

	res, err := r.Resolve([]*domain.ContentManifest{
		withRule(patchID, "1.04"),
		withRule(modID, "2.0"),
	})
	require.NoError(t, err)

	assert.Equal(t, StateAllowed, res.State())
	assert.True(t, res.IsAllowed())
	assert.True(t, res.IsTerminal())
	assert.Nil(t, res.Conflict)

	_, err = uuid.Parse(res.ID)
	assert.NoError(t, err, "resolution sessions carry a UUID")
}

func TestResolve_Block(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ConflictType:         domain.ConflictHard,
			ResolutionStrategy:   domain.ResolutionBlock,
			Reason:               "replaces the same game files",
		})
	proposed := withRule(modID, "2.0")

	res, err := r.Resolve([]*domain.ContentManifest{existing, proposed})
	require.NoError(t, err)

	assert.Equal(t, StateBlocked, res.State())
	assert.False(t, res.IsAllowed())
	assert.True(t, res.IsTerminal())

	require.NotNil(t, res.Conflict)
	assert.True(t, res.Conflict.OwnerID.Equals(patchID))
	assert.True(t, res.Conflict.CandidateID.Equals(modID))

	// The message names both identities and the declared reason.
	assert.Contains(t, res.Message, patchID.String())
	assert.Contains(t, res.Message, modID.String())
	assert.Contains(t, res.Message, "replaces the same game files")
}

func TestResolve_Warn(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ResolutionStrategy:   domain.ResolutionWarn,
			Reason:               "minor visual glitches",
		})

	res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
	require.NoError(t, err)

	assert.Equal(t, StateWarned, res.State())
	assert.True(t, res.IsAllowed(), "warned activations proceed")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "minor visual glitches", res.Warnings[0])
}

func TestResolve_PreferNewer(t *testing.T) {
	r := NewResolver()
	rule := domain.ConflictRule{
		ConflictingContentID: modID,
		ResolutionStrategy:   domain.ResolutionPreferNewer,
	}

	t.Run("candidate is newer", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{
			withRule(patchID, "1.0", rule),
			withRule(modID, "2.0"),
		})
		require.NoError(t, err)
		assert.Equal(t, StateAllowed, res.State())
		assert.True(t, res.KeptID.Equals(modID))
		assert.True(t, res.DroppedID.Equals(patchID))
	})

	t.Run("owner is newer", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{
			withRule(patchID, "3.0", rule),
			withRule(modID, "2.0"),
		})
		require.NoError(t, err)
		assert.True(t, res.KeptID.Equals(patchID))
		assert.True(t, res.DroppedID.Equals(modID))
	})

	t.Run("tie keeps the rule owner", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{
			withRule(patchID, "2.0", rule),
			withRule(modID, "2.0"),
		})
		require.NoError(t, err)
		assert.True(t, res.KeptID.Equals(patchID))
	})

	t.Run("unparseable version is an error", func(t *testing.T) {
		_, err := r.Resolve([]*domain.ContentManifest{
			withRule(patchID, "junk", rule),
			withRule(modID, "2.0"),
		})
		require.Error(t, err)
		assert.Equal(t, domain.ErrVersionUnparseable, domain.ErrorCode(err))
	})
}

func TestResolve_PreferExisting(t *testing.T) {
	r := NewResolver()
	rule := domain.ConflictRule{
		ConflictingContentID: modID,
		ResolutionStrategy:   domain.ResolutionPreferExisting,
	}

	// Callers list installed manifests before proposed ones; the earlier
	// element wins regardless of version.
	res, err := r.Resolve([]*domain.ContentManifest{
		withRule(patchID, "1.0", rule),
		withRule(modID, "99.0"),
	})
	require.NoError(t, err)

	assert.Equal(t, StateAllowed, res.State())
	assert.True(t, res.KeptID.Equals(patchID))
	assert.True(t, res.DroppedID.Equals(modID))

	t.Run("rule on the proposed side still keeps the earlier element", func(t *testing.T) {
		ruleOnProposed := domain.ConflictRule{
			ConflictingContentID: patchID,
			ResolutionStrategy:   domain.ResolutionPreferExisting,
		}
		res, err := r.Resolve([]*domain.ContentManifest{
			withRule(patchID, "1.0"),
			withRule(modID, "99.0", ruleOnProposed),
		})
		require.NoError(t, err)
		assert.True(t, res.KeptID.Equals(patchID))
		assert.True(t, res.DroppedID.Equals(modID))
	})
}

func TestResolve_UserChoiceAndDecide(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ResolutionStrategy:   domain.ResolutionUserChoice,
			Reason:               "gameplay balance changes",
		})

	res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingUserChoice, res.State())
	assert.False(t, res.IsAllowed(), "awaiting a decision is not allowed yet")
	assert.False(t, res.IsTerminal())

	require.NoError(t, res.Decide(true))
	assert.Equal(t, StateAllowed, res.State())
	assert.True(t, res.IsAllowed())
	assert.True(t, res.IsTerminal())

	t.Run("deciding twice is an error", func(t *testing.T) {
		err := res.Decide(false)
		require.Error(t, err)
		assert.Equal(t, domain.ErrInvalidInput, domain.ErrorCode(err))
		assert.Equal(t, StateAllowed, res.State(), "a settled resolution never changes state")
	})

	t.Run("rejecting blocks", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
		require.NoError(t, err)
		require.NoError(t, res.Decide(false))
		assert.Equal(t, StateBlocked, res.State())
		assert.False(t, res.IsAllowed())
	})

	t.Run("deciding a resolution with no pending choice is an error", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{withRule(patchID, "1.0")})
		require.NoError(t, err)
		assert.Error(t, res.Decide(true))
	})
}

func TestResolve_Merge(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ResolutionStrategy:   domain.ResolutionMerge,
		})

	res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
	require.NoError(t, err)

	assert.Equal(t, StateFlaggedForMerge, res.State())
	assert.True(t, res.IsAllowed(), "flagged-for-merge activations proceed")
}

func TestResolve_UnknownStrategyBlocks(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ResolutionStrategy:   domain.ResolutionStrategy("coin-flip"),
		})

	res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
	require.NoError(t, err)

	assert.Equal(t, StateBlocked, res.State())
	assert.Contains(t, res.Message, "coin-flip")
}

func TestResolve_ConflictTypeNeverChangesOutcome(t *testing.T) {
	r := NewResolver()

	types := []domain.ConflictType{
		domain.ConflictHard,
		domain.ConflictVersion,
		domain.ConflictFile,
		domain.ConflictPublisher,
		domain.ConflictFeature,
	}

	for _, ct := range types {
		t.Run(string(ct), func(t *testing.T) {
			existing := withRule(patchID, "1.04",
				domain.ConflictRule{
					ConflictingContentID: modID,
					ConflictType:         ct,
					ResolutionStrategy:   domain.ResolutionWarn,
				})
			res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
			require.NoError(t, err)
			assert.Equal(t, StateWarned, res.State())
		})
	}
}

func TestResolve_VersionRangeGatesTheRule(t *testing.T) {
	r := NewResolver()

	existing := withRule(patchID, "1.04",
		domain.ConflictRule{
			ConflictingContentID: modID,
			ConflictVersionRange: "<=1.0",
			ResolutionStrategy:   domain.ResolutionBlock,
		})

	t.Run("version outside range leaves the set allowed", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "2.0")})
		require.NoError(t, err)
		assert.Equal(t, StateAllowed, res.State())
	})

	t.Run("version inside range blocks", func(t *testing.T) {
		res, err := r.Resolve([]*domain.ContentManifest{existing, withRule(modID, "0.9")})
		require.NoError(t, err)
		assert.Equal(t, StateBlocked, res.State())
	})
}
