package composer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	ManifestFile  = "composer.json"
	LockFile      = "composer.lock"
	InstalledFile = "composer/installed.json"

	DefaultVendorDir = "vendor"
)

// Package is an installed composer package
type Package struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	PrettyVersion string `json:"version"`
	// Autoload maps psr-4 namespace prefixes to their source directories
	Autoload map[string][]string `json:"autoload,omitempty"`
}

// Alias is an entry of the composer.lock alias table
type Alias struct {
	Package string `json:"package"`
	Version string `json:"version"`
	Alias   string `json:"alias"`
}

// Store exposes the package metadata the installer needs
type Store interface {
	// Packages lists every installed package
	Packages() ([]Package, error)
	// Aliases lists the version aliases recorded in the lock file
	Aliases() ([]Alias, error)
	// Extra reads a string under the root package "extra" block; "" when unset
	Extra(path ...string) string
}

// Project reads the composer files of a project directory
type Project struct {
	Dir    string
	lookup func(string) (string, bool)
}

// Open returns a Project rooted at dir
func Open(dir string) *Project {
	return &Project{Dir: dir, lookup: os.LookupEnv}
}

func (p *Project) path(name string) string {
	return filepath.Join(p.Dir, name)
}

func (p *Project) read(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s is not valid JSON", path)
	}
	return gjson.ParseBytes(data), nil
}

func (p *Project) manifest() gjson.Result {
	m, err := p.read(p.path(ManifestFile))
	if err != nil {
		return gjson.Result{}
	}
	return m
}

// Packages reads vendor/composer/installed.json, accepting both the composer 1 array
// layout and the composer 2 {"packages": [...]} layout
func (p *Project) Packages() ([]Package, error) {
	path := filepath.Join(p.VendorDir(), InstalledFile)
	doc, err := p.read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read installed packages: %w", err)
	}

	list := doc
	if !doc.IsArray() {
		list = doc.Get("packages")
	}

	var packages []Package
	for _, item := range list.Array() {
		pkg := Package{
			Name:          item.Get("name").String(),
			Type:          item.Get("type").String(),
			PrettyVersion: item.Get("version").String(),
			Autoload:      map[string][]string{},
		}
		for ns, dirs := range item.Get("autoload.psr-4").Map() {
			if dirs.IsArray() {
				for _, d := range dirs.Array() {
					pkg.Autoload[ns] = append(pkg.Autoload[ns], d.String())
				}
			} else {
				pkg.Autoload[ns] = []string{dirs.String()}
			}
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// Aliases reads the alias table of composer.lock. A missing lock file has no aliases.
func (p *Project) Aliases() ([]Alias, error) {
	doc, err := p.read(p.path(LockFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	var aliases []Alias
	for _, item := range doc.Get("aliases").Array() {
		aliases = append(aliases, Alias{
			Package: item.Get("package").String(),
			Version: item.Get("version").String(),
			Alias:   item.Get("alias").String(),
		})
	}
	return aliases, nil
}

// Extra reads a string value below the "extra" block of composer.json
func (p *Project) Extra(path ...string) string {
	result := p.manifest().Get("extra")
	for _, key := range path {
		if !result.IsObject() {
			return ""
		}
		result = result.Get(escape(key))
	}
	if result.Type != gjson.String {
		return ""
	}
	return result.String()
}

// VendorDir resolves config.vendor-dir, COMPOSER_VENDOR_DIR or "vendor"
func (p *Project) VendorDir() string {
	dir := p.configValue("vendor-dir", "COMPOSER_VENDOR_DIR")
	if dir == "" {
		dir = DefaultVendorDir
	}
	return p.abs(dir)
}

// BinDir resolves config.bin-dir, COMPOSER_BIN_DIR or {vendor-dir}/bin
func (p *Project) BinDir() string {
	dir := p.configValue("bin-dir", "COMPOSER_BIN_DIR")
	if dir == "" {
		return filepath.Join(p.VendorDir(), "bin")
	}
	return p.abs(strings.ReplaceAll(dir, "{$vendor-dir}", p.VendorDir()))
}

// CacheDir resolves config.cache-dir, COMPOSER_CACHE_DIR or the user cache directory
func (p *Project) CacheDir() string {
	if dir := p.configValue("cache-dir", "COMPOSER_CACHE_DIR"); dir != "" {
		return p.abs(dir)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "composer")
	}
	return filepath.Join(os.TempDir(), "composer-cache")
}

// configValue prefers the environment variable over the composer.json config block
func (p *Project) configValue(key, env string) string {
	if p.lookup != nil {
		if v, ok := p.lookup(env); ok && v != "" {
			return v
		}
	}
	return p.manifest().Get("config." + escape(key)).String()
}

func (p *Project) abs(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Dir, dir)
}

// escape quotes gjson path metacharacters in a single key
func escape(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
