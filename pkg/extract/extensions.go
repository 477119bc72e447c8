package extract

import (
	"path/filepath"
	"strings"
)

// GetExtension returns the file extension from a URL, handling compound archive suffixes
func GetExtension(url string) string {
	// Remove query parameters from URLs
	if idx := strings.Index(url, "?"); idx != -1 {
		url = url[:idx]
	}

	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"):
		return ".tar.gz"
	case strings.HasSuffix(lower, ".tgz"):
		return ".tgz"
	case strings.HasSuffix(lower, ".tar.xz"):
		return ".tar.xz"
	case strings.HasSuffix(lower, ".txz"):
		return ".txz"
	case strings.HasSuffix(lower, ".tar.bz2"):
		return ".tar.bz2"
	case strings.HasSuffix(lower, ".tbz2"):
		return ".tbz2"
	case strings.HasSuffix(lower, ".tbz"):
		return ".tbz"
	case strings.HasSuffix(lower, ".tar"):
		return ".tar"
	case strings.HasSuffix(lower, ".zip"):
		return ".zip"
	case strings.HasSuffix(lower, ".jar"):
		return ".jar"
	default:
		return strings.ToLower(filepath.Ext(url))
	}
}

// IsArchive returns true if the file appears to be an archive based on its extension
func IsArchive(path string) bool {
	switch GetExtension(path) {
	case ".tar", ".tar.gz", ".tgz", ".tar.xz", ".txz", ".tar.bz2", ".tbz2", ".tbz", ".zip", ".jar":
		return true
	}
	return false
}
