package types

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/api"
	"github.com/flanksource/clicky/api/icons"
	"github.com/flanksource/phantomjs-installer/pkg/platform"
)

type InstallStatus string

const (
	InstallStatusInstalled        InstallStatus = "installed"
	InstallStatusForcedInstalled  InstallStatus = "forced_installed"
	InstallStatusAlreadyInstalled InstallStatus = "already_installed"
	// InstallStatusSkipped means the host cannot use any release, nothing was downloaded
	InstallStatusSkipped InstallStatus = "skipped"
	// InstallStatusFailed means the failure was reported to the user and the hook should not abort
	InstallStatusFailed InstallStatus = "failed"
)

func (s InstallStatus) Pretty() api.Text {
	switch s {
	case InstallStatusInstalled:
		return clicky.Text("").Add(icons.Success).Append(" Installed", "text-green-500")
	case InstallStatusForcedInstalled:
		return clicky.Text("").Add(icons.InfoAlt).Append(" Forced Installed", "text-blue-500")
	case InstallStatusAlreadyInstalled:
		return clicky.Text("").Add(icons.Skip).Append(" Already Installed", "text-yellow-500")
	case InstallStatusSkipped:
		return clicky.Text("").Add(icons.Skip).Append(" Skipped", "text-blue-500")
	case InstallStatusFailed:
		return clicky.Text("").Add(icons.Error).Append(" Failed", "text-red-500")
	default:
		return clicky.Text(string(s))
	}
}

// Done reports whether the binary in the bin directory is usable after the run
func (s InstallStatus) Done() bool {
	switch s {
	case InstallStatusInstalled, InstallStatusForcedInstalled, InstallStatusAlreadyInstalled:
		return true
	}
	return false
}

type InstallResult struct {
	// Status indicates the installation outcome
	Status InstallStatus `json:"status"`
	// Platform is the detected host platform
	Platform platform.Info `json:"platform"`
	// RequestedVersion is the version pinned by the owner package
	RequestedVersion string `json:"requested_version,omitempty"`
	// InstalledVersion is what the bin directory reported before the run
	InstalledVersion string `json:"installed_version,omitempty"`
	// DownloadedVersion is the candidate that was fetched, which may be an older fallback
	DownloadedVersion string `json:"downloaded_version,omitempty"`
	// URL is the archive that was downloaded
	URL string `json:"url,omitempty"`
	// BinDir is where the binary was placed
	BinDir string `json:"bin_dir,omitempty"`
	// Binaries lists every matched file in the extracted archive
	Binaries []string `json:"binaries,omitempty"`
	// Reason explains a skipped or failed run
	Reason string `json:"reason,omitempty"`
	// Duration is the total time taken for the installation
	Duration time.Duration `json:"duration,omitempty"`
}

func relativeDir(base string) string {
	if base == "" {
		return ""
	}
	cwd, _ := os.Getwd()
	rel, err := filepath.Rel(cwd, base)
	if err != nil || strings.HasPrefix(rel, "..") {
		return base
	}
	return rel
}

func (r InstallResult) Pretty() api.Text {
	text := clicky.Text("").Add(r.Status.Pretty()).Append(": phantomjs")

	version := r.DownloadedVersion
	if version == "" {
		version = r.InstalledVersion
	}
	if version == "" {
		version = r.RequestedVersion
	}
	if version != "" {
		text = text.Append("@" + version)
	}
	if !r.Platform.IsUnknown() {
		text = text.Append(" (" + r.Platform.String() + ")")
	}

	if r.Reason != "" {
		style := "text-yellow-500"
		if r.Status == InstallStatusFailed {
			style = "text-red-500"
		}
		return text.Append(" "+r.Reason, style)
	}

	if r.DownloadedVersion != "" && r.RequestedVersion != "" && r.DownloadedVersion != r.RequestedVersion {
		text = text.Append(" requested: ", "muted").Append(r.RequestedVersion, "text-yellow-500")
	}
	if r.BinDir != "" {
		text = text.Append(" to: ", "muted").Append(relativeDir(r.BinDir))
	}
	if r.URL != "" {
		text = text.Append(" from ", "text-muted").Append(r.URL, "text-underline")
	}
	if r.Duration > 0 {
		text = text.Append(" in ", "muted").Printf("%s", r.Duration.Round(time.Millisecond))
	}

	return text
}
