package mock

import (
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/composer"
)

// OwnerName is the package name used for the installer in tests
const OwnerName = "vaimo/phantomjs-installer"

// Store is an in-memory composer.Store
type Store struct {
	PackageList []composer.Package
	AliasList   []composer.Alias
	// ExtraValues maps a dot-joined extra path to its value
	ExtraValues map[string]string
	Err         error
}

var _ composer.Store = (*Store)(nil)

// NewStore returns a store holding only the installer package at version
func NewStore(version string) *Store {
	return &Store{PackageList: []composer.Package{OwnerPackage(version)}, ExtraValues: map[string]string{}}
}

// OwnerPackage is the installer package as composer lists it
func OwnerPackage(version string) composer.Package {
	return composer.Package{
		Name:          OwnerName,
		Type:          "composer-plugin",
		PrettyVersion: version,
		Autoload:      map[string][]string{`Vaimo\PhantomInstaller\`: {"src/"}},
	}
}

// WithAlias records a lock file alias for the installer package
func (s *Store) WithAlias(branch, alias string) *Store {
	s.AliasList = append(s.AliasList, composer.Alias{Package: OwnerName, Version: branch, Alias: alias})
	return s
}

// WithExtra sets a value below the composer.json extra block
func (s *Store) WithExtra(value string, path ...string) *Store {
	if s.ExtraValues == nil {
		s.ExtraValues = map[string]string{}
	}
	s.ExtraValues[strings.Join(path, ".")] = value
	return s
}

func (s *Store) Packages() ([]composer.Package, error) { return s.PackageList, s.Err }
func (s *Store) Aliases() ([]composer.Alias, error)    { return s.AliasList, nil }
func (s *Store) Extra(path ...string) string           { return s.ExtraValues[strings.Join(path, ".")] }

// Probe reports a fixed installed version
type Probe string

func (p Probe) InstalledVersion() string { return string(p) }
