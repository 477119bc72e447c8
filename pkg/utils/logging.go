package utils

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/flanksource/phantomjs-installer/pkg/output"
)

// LogPath returns path relative to the working directory when that is shorter
func LogPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	cwd, err := os.Getwd()
	if err != nil {
		return abs
	}
	if rel, err := filepath.Rel(cwd, abs); err == nil && len(rel) < len(abs) {
		return rel
	}
	return abs
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Host returns the host of a release URL, or the URL itself when it cannot be parsed
func Host(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}

// LogDownloadStart reports the archive being fetched and the CDN serving it
func LogDownloadStart(out output.Output, rawURL string) {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = path.Base(u.Path)
	}
	out.Infof("Downloading %s from %s", name, Host(rawURL))
}

// LogBinarySearch reports how many executables matched in the extracted release
func LogBinarySearch(out output.Output, root, names string, found int) {
	if found > 0 {
		out.Debugf("Found %d match(es) for %s in %s", found, names, LogPath(root))
	} else {
		out.Debugf("No %s in %s", names, LogPath(root))
	}
}

// LogInstalledBinary reports a binary copied into the bin directory
func LogInstalledBinary(out output.Output, dst string) {
	info, err := os.Stat(dst)
	if err != nil {
		out.Debugf("Installed %s", LogPath(dst))
		return
	}
	out.Debugf("Installed %s (%s, %o)", LogPath(dst), FormatBytes(info.Size()), info.Mode().Perm())
}

// LogExtraction reports an unpacked release archive
func LogExtraction(out output.Output, archivePath, extractDir string, fileCount int) {
	out.Infof("Extracted %s (%d files) to %s", filepath.Base(archivePath), fileCount, LogPath(extractDir))
}
