package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultSettingsYAML []byte

// LoadDefaultSettings loads the embedded default settings
func LoadDefaultSettings() (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(defaultSettingsYAML, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default settings: %w", err)
	}
	return &settings, nil
}

// mergeSettings overlays the user settings on top of the defaults.
// Empty user fields keep the default value.
func mergeSettings(defaults, user *Settings) *Settings {
	merged := *defaults

	if user.BinDir != "" {
		merged.BinDir = user.BinDir
	}
	if user.CacheDir != "" {
		merged.CacheDir = user.CacheDir
	}
	if user.CDNURL != "" {
		merged.CDNURL = user.CDNURL
	}
	if len(user.Versions) > 0 {
		merged.Versions = append([]string(nil), user.Versions...)
	}
	if user.Owner.Type != "" {
		merged.Owner.Type = user.Owner.Type
	}
	if user.Owner.Namespace != "" {
		merged.Owner.Namespace = user.Owner.Namespace
	}
	if user.ExtraKey != "" {
		merged.ExtraKey = user.ExtraKey
	}
	merged.Force = defaults.Force || user.Force
	merged.Checksums = mergeMaps(defaults.Checksums, user.Checksums)
	merged.Env = mergeMaps(defaults.Env, user.Env)
	merged.Filenames = mergeMaps(defaults.Filenames, user.Filenames)

	return &merged
}

// mergeMaps returns a copy of defaults overlaid with user, nil when both are empty
func mergeMaps(defaults, user map[string]string) map[string]string {
	if len(defaults) == 0 && len(user) == 0 {
		return nil
	}
	merged := make(map[string]string, len(defaults)+len(user))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range user {
		merged[k] = v
	}
	return merged
}
