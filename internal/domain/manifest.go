package domain

import "time"

// ContentManifest is a content package's declared contract: identity,
// publisher, dependencies, conflict rules, files, and install instructions.
// Manifests are built once by the loader when content is scanned and are
// read-only inputs to the evaluators; a rescan replaces the whole instance.
type ContentManifest struct {
	ID          ManifestID    `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name" validate:"required"`
	Version     string        `json:"version" yaml:"version"`
	ContentType ContentType   `json:"content_type" yaml:"content_type" validate:"required"`
	TargetGame  GameType      `json:"target_game" yaml:"target_game"`
	Publisher   PublisherInfo `json:"publisher" yaml:"publisher"`

	Dependencies  []ContentDependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	ConflictRules []ConflictRule      `json:"conflict_rules,omitempty" yaml:"conflict_rules,omitempty"`

	ContentReferences []ContentReference        `json:"content_references,omitempty" yaml:"content_references,omitempty"`
	Files             []ManifestFile            `json:"files,omitempty" yaml:"files,omitempty"`
	Installation      *InstallationInstructions `json:"installation,omitempty" yaml:"installation,omitempty"`

	LoadedAt time.Time `json:"loaded_at,omitempty" yaml:"-"`
	FilePath string    `json:"file_path,omitempty" yaml:"-"` // Path to the manifest file on disk
}

// PublisherInfo identifies who published a piece of content.
// The Type string is supplied by the content-source collaborator.
type PublisherInfo struct {
	Name    string        `json:"name" yaml:"name"`
	Type    PublisherType `json:"type,omitempty" yaml:"type,omitempty"`
	Website string        `json:"website,omitempty" yaml:"website,omitempty"`
	Contact string        `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// ContentDependency is a requirement that another manifest be present for
// this manifest to function. Only dependencies with InstallBehavior
// require-existing and IsOptional false are load-bearing for validation.
type ContentDependency struct {
	ID              ManifestID      `json:"id" yaml:"id"`
	DependencyType  DependencyType  `json:"dependency_type,omitempty" yaml:"dependency_type,omitempty"`
	InstallBehavior InstallBehavior `json:"install_behavior,omitempty" yaml:"install_behavior,omitempty"`
	IsOptional      bool            `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
	IsExclusive     bool            `json:"is_exclusive,omitempty" yaml:"is_exclusive,omitempty"`

	// Version constraints. MinVersion/MaxVersion bound an inclusive window,
	// ExactVersion pins a single version, CompatibleVersions enumerates an
	// allow-list. An absent constraint matches any version.
	MinVersion         string   `json:"min_version,omitempty" yaml:"min_version,omitempty"`
	MaxVersion         string   `json:"max_version,omitempty" yaml:"max_version,omitempty"`
	ExactVersion       string   `json:"exact_version,omitempty" yaml:"exact_version,omitempty"`
	CompatibleVersions []string `json:"compatible_versions,omitempty" yaml:"compatible_versions,omitempty"`

	// Game and publisher constraints
	CompatibleGameTypes        []GameType      `json:"compatible_game_types,omitempty" yaml:"compatible_game_types,omitempty"`
	PublisherType              PublisherType   `json:"publisher_type,omitempty" yaml:"publisher_type,omitempty"`
	StrictPublisher            bool            `json:"strict_publisher,omitempty" yaml:"strict_publisher,omitempty"`
	RequiredPublisherTypes     []PublisherType `json:"required_publisher_types,omitempty" yaml:"required_publisher_types,omitempty"`
	IncompatiblePublisherTypes []PublisherType `json:"incompatible_publisher_types,omitempty" yaml:"incompatible_publisher_types,omitempty"`

	// ConflictsWith lists dependency ids that must not be satisfied together
	// with this one
	ConflictsWith []ManifestID `json:"conflicts_with,omitempty" yaml:"conflicts_with,omitempty"`
}

// IsLoadBearing reports whether the absence of this dependency fails overall
// dependency validation. Suggest, auto-install, and optional dependencies are
// advisory only.
func (d ContentDependency) IsLoadBearing() bool {
	return d.InstallBehavior == InstallRequireExisting && !d.IsOptional
}

// ConflictRule is a declared incompatibility between the owning manifest and
// another identity. ConflictType is display metadata; only the strategy
// changes the resolution outcome.
type ConflictRule struct {
	ConflictingContentID ManifestID         `json:"conflicting_content_id" yaml:"conflicting_content_id"`
	ConflictType         ConflictType       `json:"conflict_type,omitempty" yaml:"conflict_type,omitempty"`
	ResolutionStrategy   ResolutionStrategy `json:"resolution_strategy" yaml:"resolution_strategy"`

	// ConflictVersionRange constrains which versions of the conflicting id
	// trigger the rule ("<=1.04", ">2.0", "1.0"). Empty matches any version.
	ConflictVersionRange string `json:"conflict_version_range,omitempty" yaml:"conflict_version_range,omitempty"`

	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Resolution string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// ContentReference points at related content without requiring it
type ContentReference struct {
	ID          ManifestID `json:"id" yaml:"id"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string     `json:"url,omitempty" yaml:"url,omitempty"`
}

// ManifestFile describes one file a manifest contributes to a workspace
type ManifestFile struct {
	Path     string `json:"path" yaml:"path"`
	Size     int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Hash     string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// InstallationInstructions tells the (out-of-scope) workspace assembler how
// to materialize the manifest's files
type InstallationInstructions struct {
	Strategy   string            `json:"strategy,omitempty" yaml:"strategy,omitempty"` // symlink, hardlink, copy
	TargetRoot string            `json:"target_root,omitempty" yaml:"target_root,omitempty"`
	Steps      []string          `json:"steps,omitempty" yaml:"steps,omitempty"`
	Variables  map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// GameInstallation describes a detected on-disk game installation, supplied
// by the external detection layer and consumed by the identity generator.
type GameInstallation struct {
	InstallationType InstallationType `json:"installation_type"`
	InstallPath      string           `json:"install_path,omitempty"`
	Version          string           `json:"version,omitempty"`
}
