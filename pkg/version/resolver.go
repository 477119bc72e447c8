package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/composer"
)

const (
	devPrefix     = "dev-"
	defaultBranch = "dev-master"
)

// ErrUnresolvableVersion is returned for a dev branch without an alias
var ErrUnresolvableVersion = errors.New("cannot resolve a release version")

// Resolver determines the requested version from the owner package metadata
type Resolver struct {
	Store composer.Store
	Owner composer.Owner
	// Known lists the fetchable releases, newest first
	Known []string
}

// NewResolver creates a resolver reading from store
func NewResolver(store composer.Store, owner composer.Owner, known []string) *Resolver {
	return &Resolver{Store: store, Owner: owner, Known: known}
}

// RequestedVersion returns the normalized version pinned by the owner package
func (r *Resolver) RequestedVersion() (string, error) {
	owner, err := composer.FindOwner(r.Store, r.Owner)
	if err != nil {
		return "", err
	}

	v, err := r.PackageVersion(*owner)
	if err != nil {
		return "", err
	}
	return Normalize(v), nil
}

// PackageVersion returns the pretty version of pkg. A dev branch resolves to its lock
// file alias; the default branch without an alias resolves to the newest known release.
func (r *Resolver) PackageVersion(pkg composer.Package) (string, error) {
	v := pkg.PrettyVersion
	if !strings.HasPrefix(v, devPrefix) {
		return v, nil
	}

	aliases, err := r.Store.Aliases()
	if err != nil {
		return "", err
	}
	for _, alias := range aliases {
		if alias.Package == pkg.Name {
			return alias.Alias, nil
		}
	}

	if v == defaultBranch {
		if latest := Latest(r.Known); latest != "" {
			return latest, nil
		}
	}

	return "", fmt.Errorf("%w: %s is at %s and has no alias in the lock file", ErrUnresolvableVersion, pkg.Name, v)
}

// Queue builds the download fallback queue for requested
func (r *Resolver) Queue(requested string) []string {
	return BuildQueue(requested, r.Known)
}
