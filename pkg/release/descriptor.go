package release

import (
	"net/url"
	"path"
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/platform"
)

// PackageName names the in-memory package a descriptor stands for
const PackageName = "phantomjs-binary"

// BinaryName is the executable every release archive ships
const BinaryName = "phantomjs"

// Kind is the archive family of a release
type Kind string

const (
	KindZip Kind = "zip"
	KindTar Kind = "tar"
)

// KindOf infers the archive kind from the URL extension: zip or else tar
func KindOf(rawURL string) Kind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".zip") {
		return KindZip
	}
	return KindTar
}

// Descriptor describes a single download attempt
type Descriptor struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	URL       string   `json:"url"`
	Kind      Kind     `json:"kind"`
	Binaries  []string `json:"binaries"`
	TargetDir string   `json:"target_dir"`
}

// Filename is the last path segment of the download URL
func (d Descriptor) Filename() string {
	if u, err := url.Parse(d.URL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(d.URL)
}

// NewDescriptor builds the descriptor for version on info, downloading from base into targetDir
func NewDescriptor(version string, info platform.Info, base, targetDir string) (*Descriptor, error) {
	return newDescriptor(version, info, base, targetDir, nil)
}

func newDescriptor(version string, info platform.Info, base, targetDir string, filenames Filenames) (*Descriptor, error) {
	downloadURL, err := filenames.URL(version, info, base)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		Name:      PackageName,
		Version:   version,
		URL:       downloadURL,
		Kind:      KindOf(downloadURL),
		Binaries:  []string{info.BinaryName(BinaryName)},
		TargetDir: targetDir,
	}, nil
}

// Builder creates descriptors for a fixed platform and CDN configuration
type Builder struct {
	Platform platform.Info
	// CDNOverride comes from the environment and wins over everything else
	CDNOverride string
	// CDNExtra comes from the project package configuration
	CDNExtra string
	// CDNDefault is used when neither is set
	CDNDefault string
	// TargetDir returns the extraction directory for a version
	TargetDir func(version string) string
	// Filenames overrides the built-in archive names
	Filenames Filenames
}

// Base resolves the CDN base for version
func (b Builder) Base(version string) string {
	return CDNBase(b.CDNOverride, b.CDNExtra, b.CDNDefault, version)
}

// URL returns the download URL for version
func (b Builder) URL(version string) (string, error) {
	return b.Filenames.URL(version, b.Platform, b.Base(version))
}

// Descriptor returns the descriptor for version
func (b Builder) Descriptor(version string) (*Descriptor, error) {
	var target string
	if b.TargetDir != nil {
		target = b.TargetDir(version)
	}
	return newDescriptor(version, b.Platform, b.Base(version), target, b.Filenames)
}
