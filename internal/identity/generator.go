// Package identity generates canonical manifest identifiers from the three
// provenance kinds: publisher-supplied content, detected game installations,
// and externally hosted releases. Every function is pure and deterministic;
// identical inputs always produce byte-identical identifier strings, and
// every output re-validates through domain.ParseManifestID.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/undead2146/genhub-core/internal/domain"
)

// SchemaVersion is the grammar schema version stamped into every generated
// identifier. Bumping it is the escape hatch for future grammar changes.
const SchemaVersion = 1

// maxReleaseVersionDigits caps the user version derived from a release tag
// so the digit concatenation cannot overflow downstream integer parsing
const maxReleaseVersionDigits = 9

// PublisherContentID builds the canonical identifier for publisher-supplied
// content: schemaVersion.userVersion.publisher.contentType.contentName.
//
// Publisher and content name are normalized by lowercasing and stripping
// every non-alphanumeric rune ("Urban-Chaos" becomes "urbanchaos"). The
// strip policy is deliberate: generated segments carry no separators, which
// keeps prefix filtering on publisher and content type unambiguous.
func PublisherContentID(publisher string, contentType domain.ContentType, contentName string, userVersion int) (domain.ManifestID, error) {
	if strings.TrimSpace(publisher) == "" {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrMissingArgument,
			"publisher must not be blank", 422, nil)
	}
	if strings.TrimSpace(contentName) == "" {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrMissingArgument,
			"content name must not be blank", 422, nil)
	}
	if userVersion < 0 {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrNegativeVersion,
			fmt.Sprintf("user version %d must be non-negative", userVersion), 422, nil)
	}
	if !contentType.IsValid() {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrInvalidInput,
			fmt.Sprintf("unknown content type %q", string(contentType)), 422, nil)
	}

	pub, err := normalizeSegment(publisher, "publisher")
	if err != nil {
		return domain.ManifestID{}, err
	}
	name, err := normalizeSegment(contentName, "content name")
	if err != nil {
		return domain.ManifestID{}, err
	}

	raw := strings.Join([]string{
		strconv.Itoa(SchemaVersion),
		strconv.Itoa(userVersion),
		pub,
		contentType.Token(),
		name,
	}, domain.IDSeparator)

	return domain.ParseManifestID(raw)
}

// GameInstallationID builds the canonical identifier for a detected game
// installation: schemaVersion.userVersion.installationType.gameinstallation.gameType.
func GameInstallationID(installation *domain.GameInstallation, game domain.GameType) (domain.ManifestID, error) {
	if installation == nil {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrMissingArgument,
			"installation must not be nil", 422, nil)
	}
	if !installation.InstallationType.IsValid() {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrInvalidInput,
			fmt.Sprintf("unknown installation type %q", string(installation.InstallationType)), 422, nil)
	}
	if !game.IsValid() {
		return domain.ManifestID{}, domain.NewAppError(domain.ErrInvalidInput,
			fmt.Sprintf("unknown game type %q", string(game)), 422, nil)
	}

	userVersion, err := NormalizeUserVersion(installation.Version)
	if err != nil {
		return domain.ManifestID{}, err
	}

	raw := strings.Join([]string{
		strconv.Itoa(SchemaVersion),
		userVersion,
		installation.InstallationType.Token(),
		domain.GameInstallationMarker,
		game.Token(),
	}, domain.IDSeparator)

	return domain.ParseManifestID(raw)
}

// ReleaseID builds the identifier for an externally hosted release, using
// the hosting account as publisher and the repository name as content name.
// The user version is every digit of the release tag concatenated, capped at
// nine digits; "latest" and blank tags map to version 0.
func ReleaseID(owner, repository, tag string, contentType domain.ContentType) (domain.ManifestID, error) {
	return PublisherContentID(owner, contentType, repository, VersionFromTag(tag))
}

// VersionFromTag extracts the user version from a release tag by
// concatenating its digit runes: "v1.04-beta2" yields 1042. Tags with no
// digits, the literal "latest", and blank tags yield 0.
func VersionFromTag(tag string) int {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" || tag == "latest" {
		return 0
	}

	var digits strings.Builder
	for _, r := range tag {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == maxReleaseVersionDigits {
				break
			}
		}
	}
	if digits.Len() == 0 {
		return 0
	}

	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return v
}

// NormalizeUserVersion canonicalizes a user-supplied version string into the
// digit run used as the identifier's user version segment:
//
//	"12"   -> "12"    (integers pass through)
//	"1.08" -> "108"   (minor part zero-padded to two digits)
//	"2.0"  -> "200"
//	""     -> "0"
//
// Negative or otherwise malformed input is an error.
func NormalizeUserVersion(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "0", nil
	}
	if strings.HasPrefix(trimmed, "-") {
		return "", domain.NewAppError(domain.ErrNegativeVersion,
			fmt.Sprintf("version %q must be non-negative", raw), 422, nil)
	}

	parts := strings.Split(trimmed, ".")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 0 {
			return "", domain.NewInvalidFormatError(raw, fmt.Sprintf("version %q is not an integer or major.minor string", raw))
		}
		return strconv.Itoa(n), nil
	case 2:
		major, err := strconv.Atoi(parts[0])
		if err != nil || major < 0 {
			return "", domain.NewInvalidFormatError(raw, fmt.Sprintf("major part of version %q is not a non-negative integer", raw))
		}
		minor, err := strconv.Atoi(parts[1])
		if err != nil || minor < 0 {
			return "", domain.NewInvalidFormatError(raw, fmt.Sprintf("minor part of version %q is not a non-negative integer", raw))
		}
		return fmt.Sprintf("%d%02d", major, minor), nil
	default:
		return "", domain.NewInvalidFormatError(raw, fmt.Sprintf("version %q has more than two dotted parts", raw))
	}
}

// normalizeSegment lowercases input and strips every rune outside [a-z0-9].
// Collapsing to nothing is an error rather than a silently empty segment.
func normalizeSegment(raw, field string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", domain.NewAppError(domain.ErrEmptyNormalizedSegment,
			fmt.Sprintf("%s %q normalized to an empty segment", field, raw), 422, nil)
	}
	return b.String(), nil
}
