package composer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOwnerPackageNotFound is returned when no installed package declares the installer
var ErrOwnerPackageNotFound = errors.New("failed to detect the plugin package")

// Owner describes how to recognise the package that declares this installer
type Owner struct {
	Type      string
	Namespace string
}

// Matches reports whether pkg has the owner type and a psr-4 prefix of the owner namespace
func (o Owner) Matches(pkg Package) bool {
	if pkg.Type != o.Type {
		return false
	}

	prefixes := make([]string, 0, len(pkg.Autoload))
	for prefix := range pkg.Autoload {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		trimmed := strings.TrimRight(prefix, `\`)
		if trimmed != "" && strings.HasPrefix(o.Namespace, trimmed) {
			return true
		}
	}
	return false
}

// FindOwner returns the first installed package matching owner
func FindOwner(store Store, owner Owner) (*Package, error) {
	packages, err := store.Packages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOwnerPackageNotFound, err)
	}

	for i := range packages {
		if owner.Matches(packages[i]) {
			return &packages[i], nil
		}
	}
	return nil, fmt.Errorf("%w (type=%s, namespace=%s)", ErrOwnerPackageNotFound, owner.Type, owner.Namespace)
}
