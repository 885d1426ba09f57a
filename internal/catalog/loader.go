// Package catalog provides the manifest cache/lookup collaborator: it loads
// content manifests from disk, validates their identifiers on read, and
// serves immutable snapshots keyed by ManifestID to the evaluators.
package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/undead2146/genhub-core/internal/domain"
)

// ValidManifestExtensions defines the file extensions recognized as
// manifest files
var ValidManifestExtensions = []string{".manifest.yaml", ".manifest.json"}

// LoadError records a failure to load one specific manifest file.
// Individual failures never abort a catalog scan.
type LoadError struct {
	FilePath string `json:"file_path"`
	Error    string `json:"error"`
}

// Parser parses and validates manifest files in YAML and JSON formats
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// ParseFile reads, parses, and validates a single manifest file
func (p *Parser) ParseFile(path string) (*domain.ContentManifest, *LoadError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Error: "failed to read file: " + err.Error()}
	}

	manifest, loadErr := p.Parse(data, path)
	if loadErr != nil {
		return nil, loadErr
	}
	manifest.FilePath = path
	return manifest, nil
}

// Parse parses manifest content. The identifier is re-validated through the
// grammar during unmarshaling; a manifest with a malformed id is rejected
// with the exact rule it violated.
func (p *Parser) Parse(data []byte, path string) (*domain.ContentManifest, *LoadError) {
	var manifest domain.ContentManifest
	var err error

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = json.Unmarshal(data, &manifest)
	} else {
		err = yaml.Unmarshal(data, &manifest)
	}
	if err != nil {
		return nil, &LoadError{FilePath: path, Error: "failed to parse manifest: " + err.Error()}
	}

	if manifest.ID.IsZero() {
		return nil, &LoadError{FilePath: path, Error: "manifest is missing an id"}
	}
	if err := p.validate.Struct(&manifest); err != nil {
		return nil, &LoadError{FilePath: path, Error: "manifest validation failed: " + err.Error()}
	}
	if !manifest.ContentType.IsValid() {
		return nil, &LoadError{FilePath: path, Error: "unknown content type " + string(manifest.ContentType)}
	}
	return &manifest, nil
}

// Scanner discovers manifest files under a root directory
type Scanner struct {
	rootDir string
}

// NewScanner creates a new Scanner for the given root directory
func NewScanner(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// Scan walks the root directory and returns every manifest file path
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.rootDir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(path)
		for _, ext := range ValidManifestExtensions {
			if strings.HasSuffix(lower, ext) {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return paths, nil
}
