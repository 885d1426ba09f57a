package activation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undead2146/genhub-core/internal/conflict"
	"github.com/undead2146/genhub-core/internal/domain"
)

var (
	installationID = domain.MustParseManifestID("1.108.steam.gameinstallation.zerohour")
	patchID        = domain.MustParseManifestID("1.104.ea.patch.generals104")
	modID          = domain.MustParseManifestID("1.2.cnclabs.mod.urbanchaos")
)

func manifest(id domain.ManifestID, version string) *domain.ContentManifest {
	return &domain.ContentManifest{
		ID:      id,
		Name:    "fixture",
		Version: version,
	}
}

func availableSet(manifests ...*domain.ContentManifest) map[domain.ManifestID]*domain.ContentManifest {
	out := make(map[domain.ManifestID]*domain.ContentManifest, len(manifests))
	for _, m := range manifests {
		out[m.ID] = m
	}
	return out
}

func TestValidate_AllowedWithSatisfiedDependencies(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	mod := manifest(modID, "2.0")
	mod.Dependencies = []domain.ContentDependency{
		{ID: installationID, InstallBehavior: domain.InstallRequireExisting},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{mod}, availableSet(manifest(installationID, "1.08")))
	require.NoError(t, err)

	assert.Equal(t, VerdictAllowed, result.Verdict)
	assert.Empty(t, result.MissingDependencies)
	require.Len(t, result.ActiveSet, 1)
	assert.True(t, result.ActiveSet[0].ID.Equals(modID))
}

func TestValidate_BlockedOnMissingDependency(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	mod := manifest(modID, "2.0")
	mod.Dependencies = []domain.ContentDependency{
		{ID: patchID, InstallBehavior: domain.InstallRequireExisting},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{mod}, availableSet())
	require.NoError(t, err)

	assert.Equal(t, VerdictBlocked, result.Verdict)
	require.Contains(t, result.MissingDependencies, modID)
	require.Len(t, result.MissingDependencies[modID], 1)
	assert.True(t, result.MissingDependencies[modID][0].Equals(patchID))
	assert.Empty(t, result.ActiveSet)
}

func TestValidate_ProposedManifestsSatisfyEachOther(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	patch := manifest(patchID, "1.04")
	mod := manifest(modID, "2.0")
	mod.Dependencies = []domain.ContentDependency{
		{ID: patchID, InstallBehavior: domain.InstallRequireExisting},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{patch, mod}, availableSet())
	require.NoError(t, err)
	assert.Equal(t, VerdictAllowed, result.Verdict)
}

func TestValidate_BlockedOnConflict(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	existing := manifest(patchID, "1.04")
	existing.ConflictRules = []domain.ConflictRule{
		{ConflictingContentID: modID, ResolutionStrategy: domain.ResolutionBlock, Reason: "file overlap"},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{existing, manifest(modID, "2.0")}, availableSet())
	require.NoError(t, err)

	assert.Equal(t, VerdictBlocked, result.Verdict)
	require.NotNil(t, result.Resolution)
	assert.Equal(t, conflict.StateBlocked, result.Resolution.State())
	assert.Empty(t, result.ActiveSet)
}

func TestValidate_WarnedConflictStillAllows(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	existing := manifest(patchID, "1.04")
	existing.ConflictRules = []domain.ConflictRule{
		{ConflictingContentID: modID, ResolutionStrategy: domain.ResolutionWarn, Reason: "visual glitches"},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{existing, manifest(modID, "2.0")}, availableSet())
	require.NoError(t, err)

	assert.Equal(t, VerdictAllowed, result.Verdict)
	assert.Equal(t, []string{"visual glitches"}, result.Warnings)
	assert.Len(t, result.ActiveSet, 2)
}

func TestValidate_PreferStrategyShrinksActiveSet(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	existing := manifest(patchID, "1.0")
	existing.ConflictRules = []domain.ConflictRule{
		{ConflictingContentID: modID, ResolutionStrategy: domain.ResolutionPreferNewer},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{existing, manifest(modID, "2.0")}, availableSet())
	require.NoError(t, err)

	assert.Equal(t, VerdictAllowed, result.Verdict)
	assert.True(t, result.DroppedID.Equals(patchID))
	require.Len(t, result.ActiveSet, 1)
	assert.True(t, result.ActiveSet[0].ID.Equals(modID))
}

func TestValidate_UserChoiceRoundTrip(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	existing := manifest(patchID, "1.04")
	existing.ConflictRules = []domain.ConflictRule{
		{ConflictingContentID: modID, ResolutionStrategy: domain.ResolutionUserChoice},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{existing, manifest(modID, "2.0")}, availableSet())
	require.NoError(t, err)
	assert.Equal(t, VerdictNeedsUserChoice, result.Verdict)

	verdict, err := v.ApplyDecision(result, true)
	require.NoError(t, err)
	assert.Equal(t, VerdictAllowed, verdict)
	assert.Equal(t, VerdictAllowed, result.Verdict)

	t.Run("rejecting blocks", func(t *testing.T) {
		result, err := v.Validate(ctx, []*domain.ContentManifest{existing, manifest(modID, "2.0")}, availableSet())
		require.NoError(t, err)

		verdict, err := v.ApplyDecision(result, false)
		require.NoError(t, err)
		assert.Equal(t, VerdictBlocked, verdict)
	})

	t.Run("decision without a pending resolution", func(t *testing.T) {
		_, err := v.ApplyDecision(&Result{}, true)
		assert.Error(t, err)

		_, err = v.ApplyDecision(nil, true)
		assert.Error(t, err)
	})
}

func TestValidate_DependencyCheckRunsBeforeConflicts(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	// Both a missing dependency and a blocking conflict are present; the
	// missing dependency wins and no resolution is attempted.
	existing := manifest(patchID, "1.04")
	existing.ConflictRules = []domain.ConflictRule{
		{ConflictingContentID: modID, ResolutionStrategy: domain.ResolutionBlock},
	}
	mod := manifest(modID, "2.0")
	mod.Dependencies = []domain.ContentDependency{
		{ID: installationID, InstallBehavior: domain.InstallRequireExisting},
	}

	result, err := v.Validate(ctx, []*domain.ContentManifest{existing, mod}, availableSet())
	require.NoError(t, err)

	assert.Equal(t, VerdictBlocked, result.Verdict)
	assert.Contains(t, result.MissingDependencies, modID)
	assert.Nil(t, result.Resolution)
}

func TestValidate_EmptyProposalIsAllowed(t *testing.T) {
	v := NewValidator()

	result, err := v.Validate(context.Background(), nil, availableSet())
	require.NoError(t, err)
	assert.Equal(t, VerdictAllowed, result.Verdict)
}
