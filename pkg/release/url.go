package release

import (
	"fmt"
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/platform"
	"github.com/flanksource/phantomjs-installer/pkg/template"
)

// DefaultCDNURL is used when neither the environment nor the project configures a base
const DefaultCDNURL = "https://api.bitbucket.org/2.0/repositories/ariya/phantomjs/downloads/"

// legacyGitHubBase is the old release layout that needs a per-version path segment
const legacyGitHubBase = "github.com/medium/phantomjs/"

var filenameTemplates = map[platform.OS]map[string]string{
	platform.Windows: {"": "phantomjs-{{.version}}-windows.zip"},
	platform.Linux: {
		"32": "phantomjs-{{.version}}-linux-i686.tar.bz2",
		"64": "phantomjs-{{.version}}-linux-x86_64.tar.bz2",
	},
	platform.MacOSX: {"": "phantomjs-{{.version}}-macosx.zip"},
}

// UnsupportedPlatformError is returned when no release archive exists for a platform
type UnsupportedPlatformError struct {
	Platform platform.Info
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("the installer could not select a PhantomJS package for %s, please install PhantomJS manually into the bin folder of your project", e.Platform)
}

// FilenameTemplate returns the archive filename pattern for info, or "" when none exists
func FilenameTemplate(info platform.Info) string {
	return Filenames(nil).Template(info)
}

// Filenames overrides the archive filename templates, keyed by "<os>-<bitsize>" or "<os>"
type Filenames map[string]string

// Template returns the override for info, falling back to the built-in pattern
func (f Filenames) Template(info platform.Info) string {
	for _, key := range []string{string(info.OS) + "-" + info.Bitsize, string(info.OS)} {
		if tmpl := f[key]; tmpl != "" {
			return tmpl
		}
	}

	byBitsize, ok := filenameTemplates[info.OS]
	if !ok {
		return ""
	}
	if tmpl, ok := byBitsize[""]; ok {
		return tmpl
	}
	return byBitsize[info.Bitsize]
}

// Render renders the archive filename for version on info
func (f Filenames) Render(version string, info platform.Info) (string, error) {
	tmpl := f.Template(info)
	if tmpl == "" {
		return "", &UnsupportedPlatformError{Platform: info}
	}
	return template.TemplateFilename(tmpl, version, info.Bitsize)
}

// URL joins base with the archive filename for version on info
func (f Filenames) URL(version string, info platform.Info, base string) (string, error) {
	file, err := f.Render(version, info)
	if err != nil {
		return "", err
	}
	return withTrailingSlash(base) + file, nil
}

// RemoteFilename renders the built-in archive filename for version on info
func RemoteFilename(version string, info platform.Info) (string, error) {
	return Filenames(nil).Render(version, info)
}

// CDNBase picks the first non-empty of the environment override, the project level
// setting and fallback, normalized to a single trailing slash. The legacy GitHub
// layout is expanded with the release path for version.
func CDNBase(override, extra, fallback, version string) string {
	base := override
	if base == "" {
		base = extra
	}
	if base == "" {
		base = fallback
	}
	if base == "" {
		base = DefaultCDNURL
	}

	base = withTrailingSlash(base)
	if strings.HasSuffix(strings.ToLower(base), legacyGitHubBase) {
		base = withTrailingSlash(base + "releases/download/v" + version)
	}
	return base
}

// BuildDownloadURL joins the CDN base with the archive filename for version on info
func BuildDownloadURL(version string, info platform.Info, base string) (string, error) {
	return Filenames(nil).URL(version, info, base)
}

func withTrailingSlash(url string) string {
	return strings.TrimRight(url, "/") + "/"
}
