// Package version provides tolerant dotted-numeric version parsing,
// comparison, and constraint satisfaction for dependency windows and
// conflict version ranges.
package version

import (
	"strconv"
	"strings"

	"github.com/undead2146/genhub-core/internal/domain"
)

// Parse splits a version string into its numeric components. A leading 'v'
// and pre-release/build suffixes ("1.2.0-beta", "1.2.0+41") are tolerated;
// anything else non-numeric is an error, not a silent zero.
func Parse(v string) ([]int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if trimmed == "" {
		return nil, domain.NewAppError(domain.ErrVersionUnparseable,
			"version string is empty", 422, nil)
	}

	parts := strings.Split(trimmed, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		if idx := strings.IndexAny(part, "-+"); idx >= 0 {
			part = part[:idx]
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 {
			return nil, domain.NewAppError(domain.ErrVersionUnparseable,
				"version "+strconv.Quote(v)+" is not a dotted numeric version", 422,
				map[string]any{"segment": part})
		}
		result = append(result, num)
	}
	return result, nil
}

// Compare compares two version strings numerically, segment by segment.
// Missing segments compare as zero ("1.0" == "1.0.0").
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2.
func Compare(v1, v2 string) (int, error) {
	parts1, err := Parse(v1)
	if err != nil {
		return 0, err
	}
	parts2, err := Parse(v2)
	if err != nil {
		return 0, err
	}

	n := max(len(parts1), len(parts2))
	for i := range n {
		p1, p2 := 0, 0
		if i < len(parts1) {
			p1 = parts1[i]
		}
		if i < len(parts2) {
			p2 = parts2[i]
		}
		if p1 < p2 {
			return -1, nil
		}
		if p1 > p2 {
			return 1, nil
		}
	}
	return 0, nil
}

// Equal reports whether two version strings denote the same version
func Equal(v1, v2 string) (bool, error) {
	cmp, err := Compare(v1, v2)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// SatisfiesConstraint checks a version against a constraint expression:
// ">=1.0", "<=2.0", ">1.0", "<2.0", "=1.0", a bare version (exact match),
// or "*"/empty (matches everything).
func SatisfiesConstraint(version, constraint string) (bool, error) {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || constraint == "*" {
		return true, nil
	}

	var op string
	target := constraint
	for _, candidate := range []string{">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(constraint, candidate) {
			op = candidate
			target = strings.TrimSpace(strings.TrimPrefix(constraint, candidate))
			break
		}
	}
	if op == "" {
		op = "="
	}

	cmp, err := Compare(version, target)
	if err != nil {
		return false, err
	}

	switch op {
	case ">=":
		return cmp >= 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case "<":
		return cmp < 0, nil
	default:
		return cmp == 0, nil
	}
}

// InWindow checks a version against an inclusive [min, max] window.
// An empty bound is open on that side.
func InWindow(version, minVersion, maxVersion string) (bool, error) {
	if minVersion != "" {
		cmp, err := Compare(version, minVersion)
		if err != nil {
			return false, err
		}
		if cmp < 0 {
			return false, nil
		}
	}
	if maxVersion != "" {
		cmp, err := Compare(version, maxVersion)
		if err != nil {
			return false, err
		}
		if cmp > 0 {
			return false, nil
		}
	}
	return true, nil
}
