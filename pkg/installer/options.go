package installer

import (
	"github.com/flanksource/phantomjs-installer/pkg/composer"
	"github.com/flanksource/phantomjs-installer/pkg/config"
	"github.com/flanksource/phantomjs-installer/pkg/download"
	"github.com/flanksource/phantomjs-installer/pkg/output"
)

// VersionProbe reports the version of the binary already in the bin directory
type VersionProbe interface {
	InstalledVersion() string
}

// InstallOptions configures the installation behavior
type InstallOptions struct {
	ProjectDir string
	BinDir     string
	CacheDir   string
	// SettingsFile is read when Settings is nil
	SettingsFile string
	Force        bool
	// Platform holds the environment overrides, read from the process environment when nil
	Platform  *config.PlatformConfig
	Settings  *config.Settings
	Output    output.Output
	Transport download.Fetcher
	Store     composer.Store
	Probe     VersionProbe
}

// InstallOption is a functional option for configuring installation
type InstallOption func(*InstallOptions)

// WithProjectDir sets the directory holding composer.json
func WithProjectDir(dir string) InstallOption {
	return func(opts *InstallOptions) {
		opts.ProjectDir = dir
	}
}

// WithBinDir sets the binary installation directory
func WithBinDir(dir string) InstallOption {
	return func(opts *InstallOptions) {
		opts.BinDir = dir
	}
}

// WithCacheDir sets the composer cache directory the downloads go below
func WithCacheDir(dir string) InstallOption {
	return func(opts *InstallOptions) {
		opts.CacheDir = dir
	}
}

// WithSettingsFile sets the YAML settings file
func WithSettingsFile(path string) InstallOption {
	return func(opts *InstallOptions) {
		opts.SettingsFile = path
	}
}

// WithForce re-downloads even when the installed binary is up to date
func WithForce(force bool) InstallOption {
	return func(opts *InstallOptions) {
		opts.Force = force
	}
}

// WithPlatformConfig replaces the environment overrides
func WithPlatformConfig(cfg config.PlatformConfig) InstallOption {
	return func(opts *InstallOptions) {
		opts.Platform = &cfg
	}
}

// WithSettings replaces the settings file
func WithSettings(settings *config.Settings) InstallOption {
	return func(opts *InstallOptions) {
		opts.Settings = settings
	}
}

// WithOutput sets where diagnostics are reported
func WithOutput(out output.Output) InstallOption {
	return func(opts *InstallOptions) {
		opts.Output = out
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(transport download.Fetcher) InstallOption {
	return func(opts *InstallOptions) {
		opts.Transport = transport
	}
}

// WithStore replaces the composer metadata read from the project directory
func WithStore(store composer.Store) InstallOption {
	return func(opts *InstallOptions) {
		opts.Store = store
	}
}

// WithVersionProbe replaces the installed version check
func WithVersionProbe(probe VersionProbe) InstallOption {
	return func(opts *InstallOptions) {
		opts.Probe = probe
	}
}

// DefaultOptions returns sensible default options
func DefaultOptions() InstallOptions {
	return InstallOptions{
		ProjectDir: ".",
	}
}
