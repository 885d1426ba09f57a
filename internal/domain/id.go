// Package domain holds the manifest identity grammar and the content
// manifest model the rest of the system operates on.
package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// IDSeparator is the character used between manifest identifier segments
const IDSeparator = "."

// CanonicalSegmentCount is the segment count of both canonical grammars
const CanonicalSegmentCount = 5

// MaxLegacySegmentCount is the largest segment count accepted on the
// deprecated simple-id read path
const MaxLegacySegmentCount = 4

// GameInstallationMarker is the literal fourth segment of installation ids
const GameInstallationMarker = "gameinstallation"

// ManifestID is the canonical, case-insensitive identifier of a manifest.
// Once constructed it is always grammar-valid: the only way to obtain a
// non-zero ManifestID is through ParseManifestID or the identity generator.
// The value is lowercased at construction, so == on two ManifestID values
// is the case-insensitive comparison and the type can be used as a map key.
type ManifestID struct {
	value  string
	legacy bool
}

// ParseManifestID validates a candidate string against the identifier
// grammar and returns the canonical ManifestID. On failure the error is an
// *AppError with code INVALID_FORMAT whose message names the exact rule
// that was violated.
//
// Canonical shapes (exactly five dot-separated segments):
//
//	schemaVersion.userVersion.publisher.contentType.contentName
//	schemaVersion.userVersion.installationType.gameinstallation.gameType
//
// A deprecated fallback accepts simple ids of one to four alphanumeric/dash
// segments for backward compatibility with old fixtures; those parse with
// IsLegacy() == true.
func ParseManifestID(candidate string) (ManifestID, error) {
	normalized := strings.ToLower(strings.TrimSpace(candidate))
	if normalized == "" {
		return ManifestID{}, NewInvalidFormatError(candidate, "identifier must not be empty")
	}

	segments := strings.Split(normalized, IDSeparator)
	switch {
	case len(segments) > CanonicalSegmentCount:
		return ManifestID{}, NewInvalidFormatError(candidate,
			fmt.Sprintf("identifier has %d segments, expected exactly %d", len(segments), CanonicalSegmentCount))
	case len(segments) == CanonicalSegmentCount:
		if err := validateCanonical(candidate, segments); err != nil {
			return ManifestID{}, err
		}
		return ManifestID{value: normalized}, nil
	default:
		if err := validateLegacy(candidate, segments); err != nil {
			return ManifestID{}, err
		}
		return ManifestID{value: normalized, legacy: true}, nil
	}
}

// MustParseManifestID parses a candidate and panics on failure.
// Intended for fixtures and tests, never for untrusted input.
func MustParseManifestID(candidate string) ManifestID {
	id, err := ParseManifestID(candidate)
	if err != nil {
		panic(err)
	}
	return id
}

// validateCanonical checks the two five-segment grammars. The installation
// shape is recognized by the literal gameinstallation marker in segment four
// together with a known installation-type token in segment three; everything
// else falls through to the publisher-content shape so that publisher ids
// whose content type happens to be gameinstallation still parse.
func validateCanonical(candidate string, segments []string) error {
	for i, seg := range segments {
		if seg == "" {
			return NewInvalidFormatError(candidate, fmt.Sprintf("segment %d is empty", i+1))
		}
	}

	if !isDigits(segments[0]) {
		return NewInvalidFormatError(candidate,
			fmt.Sprintf("schema version %q must be a non-negative digit sequence", segments[0]))
	}
	if !isDigits(segments[1]) {
		return NewInvalidFormatError(candidate,
			fmt.Sprintf("user version %q must be a non-negative digit sequence", segments[1]))
	}

	if segments[3] == GameInstallationMarker {
		if InstallationType(segments[2]).IsValid() {
			if !GameType(segments[4]).IsValid() {
				return NewInvalidFormatError(candidate,
					fmt.Sprintf("unknown game type %q", segments[4]))
			}
			return nil
		}
		// An unknown segment three paired with a known game type is a
		// malformed installation id rather than publisher content.
		if GameType(segments[4]).IsValid() {
			return NewInvalidFormatError(candidate,
				fmt.Sprintf("unknown installation type %q", segments[2]))
		}
	}

	for i := 2; i < CanonicalSegmentCount; i++ {
		if !isToken(segments[i]) {
			return NewInvalidFormatError(candidate,
				fmt.Sprintf("segment %d %q contains characters outside lowercase alphanumerics and dashes", i+1, segments[i]))
		}
	}
	return nil
}

func validateLegacy(candidate string, segments []string) error {
	for i, seg := range segments {
		if seg == "" {
			return NewInvalidFormatError(candidate, fmt.Sprintf("segment %d is empty", i+1))
		}
		if !isToken(seg) {
			return NewInvalidFormatError(candidate,
				fmt.Sprintf("segment %d %q contains characters outside lowercase alphanumerics and dashes", i+1, seg))
		}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isToken(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return s != ""
}

// String returns the canonical lowercase identifier string
func (id ManifestID) String() string {
	return id.value
}

// IsZero reports whether the id is the zero value (never grammar-valid)
func (id ManifestID) IsZero() bool {
	return id.value == ""
}

// IsLegacy reports whether the id was accepted on the deprecated
// simple-id fallback path
func (id ManifestID) IsLegacy() bool {
	return id.legacy
}

// IsInstallation reports whether the id uses the game-installation shape
func (id ManifestID) IsInstallation() bool {
	segs := id.Segments()
	return len(segs) == CanonicalSegmentCount &&
		segs[3] == GameInstallationMarker &&
		InstallationType(segs[2]).IsValid()
}

// Segments returns the dot-separated segments of the identifier
func (id ManifestID) Segments() []string {
	if id.value == "" {
		return nil
	}
	return strings.Split(id.value, IDSeparator)
}

// SchemaVersion returns the schema version segment, or empty for legacy ids
func (id ManifestID) SchemaVersion() string {
	return id.canonicalSegment(0)
}

// UserVersion returns the user version segment, or empty for legacy ids
func (id ManifestID) UserVersion() string {
	return id.canonicalSegment(1)
}

// Publisher returns the publisher segment of a publisher-content id, or the
// installation type segment of an installation id. Empty for legacy ids.
func (id ManifestID) Publisher() string {
	return id.canonicalSegment(2)
}

// ContentTypeToken returns the content type segment, or empty for legacy ids
func (id ManifestID) ContentTypeToken() string {
	return id.canonicalSegment(3)
}

// ContentName returns the content name segment, or empty for legacy ids
func (id ManifestID) ContentName() string {
	return id.canonicalSegment(4)
}

func (id ManifestID) canonicalSegment(i int) string {
	segs := id.Segments()
	if len(segs) != CanonicalSegmentCount {
		return ""
	}
	return segs[i]
}

// Equals compares two ids case-insensitively. Both sides are already
// normalized, so this is plain string equality.
func (id ManifestID) Equals(other ManifestID) bool {
	return id.value == other.value
}

// EqualsString compares the id against a raw candidate string without
// requiring the candidate to be grammar-valid.
func (id ManifestID) EqualsString(candidate string) bool {
	return id.value == strings.ToLower(strings.TrimSpace(candidate))
}

// MarshalText implements encoding.TextMarshaler so the id round-trips as a
// plain string field in persisted manifests.
func (id ManifestID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Persisted identifiers
// are validated on every load, never trusted as-is.
func (id *ManifestID) UnmarshalText(text []byte) error {
	parsed, err := ParseManifestID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (id ManifestID) MarshalYAML() (any, error) {
	return id.value, nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same validate-on-read
// behavior as the JSON path.
func (id *ManifestID) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return id.UnmarshalText([]byte(raw))
}
