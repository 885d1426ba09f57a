package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType_TokenTable(t *testing.T) {
	expected := map[ContentType]string{
		ContentGameInstallation:  "gameinstallation",
		ContentGameClient:        "gameclient",
		ContentMod:               "mod",
		ContentPatch:             "patch",
		ContentAddon:             "addon",
		ContentMapPack:           "mappack",
		ContentLanguagePack:      "languagepack",
		ContentBundle:            "contentbundle",
		ContentPublisherReferral: "publisherreferral",
		ContentReferralType:      "contentreferral",
		ContentMission:           "mission",
		ContentMap:               "map",
		ContentUnknown:           "unknown",
	}

	require.Len(t, AllContentTypes, len(expected), "token table and AllContentTypes disagree")
	for _, ct := range AllContentTypes {
		token, ok := expected[ct]
		require.True(t, ok, "content type %q missing from expected table", ct)
		assert.Equal(t, token, ct.Token())
		assert.True(t, ct.IsValid())

		// Every token must itself be a grammar-valid lowercase segment.
		assert.Equal(t, strings.ToLower(token), token)
		assert.NotContains(t, token, IDSeparator)
	}
}

func TestParseContentType(t *testing.T) {
	for _, ct := range AllContentTypes {
		parsed, ok := ParseContentType(ct.Token())
		assert.True(t, ok)
		assert.Equal(t, ct, parsed)
	}

	_, ok := ParseContentType("texturepack")
	assert.False(t, ok, "unknown tokens must not parse")

	_, ok = ParseContentType("Mod")
	assert.False(t, ok, "tokens are case sensitive, callers normalize before parsing")
}

func TestInstallationType_Tokens(t *testing.T) {
	for _, it := range AllInstallationTypes {
		assert.True(t, it.IsValid())
		assert.Equal(t, strings.ToLower(it.Token()), it.Token())
		assert.NotContains(t, it.Token(), IDSeparator)
	}
	assert.False(t, InstallationType("gog").IsValid())
}

func TestGameType_Tokens(t *testing.T) {
	for _, gt := range AllGameTypes {
		assert.True(t, gt.IsValid())
		assert.Equal(t, strings.ToLower(gt.Token()), gt.Token())
	}
	assert.False(t, GameType("redalert").IsValid())
}

func TestContentDependency_IsLoadBearing(t *testing.T) {
	tests := []struct {
		name     string
		behavior InstallBehavior
		optional bool
		want     bool
	}{
		{"require existing and mandatory", InstallRequireExisting, false, true},
		{"require existing but optional", InstallRequireExisting, true, false},
		{"auto install", InstallAuto, false, false},
		{"suggest", InstallSuggest, false, false},
		{"suggest and optional", InstallSuggest, true, false},
		{"unset behavior", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep := ContentDependency{
				ID:              MustParseManifestID("1.0.ea.patch.generals104"),
				InstallBehavior: tt.behavior,
				IsOptional:      tt.optional,
			}
			assert.Equal(t, tt.want, dep.IsLoadBearing())
		})
	}
}
