package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Normalize turns a dotted version into exactly three numeric components.
// Handles: 2.1 -> 2.1.0, 2.1.1.5 -> 2.1.1, 2-1-1 -> 2.1.1
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return version
	}

	parts := strings.Split(strings.ReplaceAll(version, "-", "."), ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".")
}

// Parse normalizes and parses a version string
func Parse(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(Normalize(version))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v, nil
}

// Compare compares two version strings, normalizing them first
// Returns -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func Compare(v1, v2 string) (int, error) {
	norm1 := Normalize(v1)
	norm2 := Normalize(v2)

	if norm1 == norm2 {
		return 0, nil
	}

	sv1, err := Parse(norm1)
	if err != nil {
		return 0, err
	}
	sv2, err := Parse(norm2)
	if err != nil {
		return 0, err
	}

	return sv1.Compare(sv2), nil
}

// Less reports whether v1 orders strictly before v2.
// Versions that cannot be parsed never order before anything.
func Less(v1, v2 string) bool {
	cmp, err := Compare(v1, v2)
	return err == nil && cmp < 0
}
