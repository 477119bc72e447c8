package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SettingsFile = ".phantomjs-installer.yaml"

	EnvPlatform = "PHANTOMJS_PLATFORM"
	EnvBitsize  = "PHANTOMJS_BITSIZE"
	EnvCDNURL   = "PHANTOMJS_CDNURL"

	// npm-style names, honoured when the primary variable is not set
	EnvPlatformSecondary = "npm_config_phantomjs_platform"
	EnvBitsizeSecondary  = "npm_config_phantomjs_bitsize"
	EnvCDNURLSecondary   = "npm_config_phantomjs_cdnurl"

	// CDNURLKey is the key under extra.<ExtraKey> in composer.json holding a custom CDN base
	CDNURLKey = "cdnurl"
)

// OwnerSettings identifies the composer package that declares this installer
type OwnerSettings struct {
	Type      string `json:"type" yaml:"type"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Settings holds the installer configuration
type Settings struct {
	// BinDir overrides the composer bin-dir
	BinDir string `json:"bin_dir,omitempty" yaml:"bin_dir,omitempty"`
	// CacheDir overrides the composer cache-dir
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	// CDNURL is the base URL used when no override is configured
	CDNURL string `json:"cdn_url,omitempty" yaml:"cdn_url,omitempty"`
	// Versions lists every release that can be fetched, newest first
	Versions []string      `json:"versions,omitempty" yaml:"versions,omitempty"`
	Owner    OwnerSettings `json:"owner" yaml:"owner"`
	// ExtraKey is the composer.json extra block read for package level configuration
	ExtraKey string `json:"extra_key,omitempty" yaml:"extra_key,omitempty"`
	// Force always re-downloads, even when the installed binary is up to date
	Force bool `json:"force,omitempty" yaml:"force,omitempty"`
	// Checksums pins archive digests by archive filename, e.g. sha256:<hex>
	Checksums map[string]string `json:"checksums,omitempty" yaml:"checksums,omitempty"`
	// Filenames overrides the archive filename templates, keyed by "<os>-<bitsize>" or "<os>"
	Filenames map[string]string `json:"filenames,omitempty" yaml:"filenames,omitempty"`
	// Env holds templates for the variables printed by the env command
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// LoadSettings loads settings from path merged over the embedded defaults.
// A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	defaults, err := LoadDefaultSettings()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = SettingsFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var user Settings
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	settings := mergeSettings(defaults, &user)
	base := filepath.Dir(path)
	settings.BinDir = resolvePath(base, settings.BinDir)
	settings.CacheDir = resolvePath(base, settings.CacheDir)
	return settings, nil
}

// resolvePath makes a settings path absolute relative to the settings file, expanding ~
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if p[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return filepath.Join(base, p)
}

// LookupFunc reads a single environment value
type LookupFunc func(key string) (string, bool)

// PlatformConfig captures every environment override consulted by the pipeline.
// It is resolved once at startup and passed down.
type PlatformConfig struct {
	OSOverride      string `json:"os_override,omitempty" yaml:"os_override,omitempty"`
	BitsizeOverride string `json:"bitsize_override,omitempty" yaml:"bitsize_override,omitempty"`
	CDNURLOverride  string `json:"cdn_url_override,omitempty" yaml:"cdn_url_override,omitempty"`
}

// FromEnv builds a PlatformConfig from the process environment
func FromEnv() PlatformConfig {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a PlatformConfig using lookup. OS and bitsize values are lowercased.
func FromLookup(lookup LookupFunc) PlatformConfig {
	return PlatformConfig{
		OSOverride:      strings.ToLower(firstSet(lookup, EnvPlatform, EnvPlatformSecondary)),
		BitsizeOverride: strings.ToLower(firstSet(lookup, EnvBitsize, EnvBitsizeSecondary)),
		CDNURLOverride:  firstSet(lookup, EnvCDNURL, EnvCDNURLSecondary),
	}
}

func firstSet(lookup LookupFunc, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
