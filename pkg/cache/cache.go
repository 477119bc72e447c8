package cache

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Namespace is the subdirectory of the composer cache owned by the installer
const Namespace = "files/phantomjs-installer/downloaded-bin"

// Cache is the download area for release archives and their extracted trees
type Cache struct {
	Root string
}

// New returns the installer cache below a composer cache directory
func New(cacheDir string) *Cache {
	return &Cache{Root: filepath.Join(cacheDir, filepath.FromSlash(Namespace))}
}

// Clear removes everything below the cache root, leaving an empty root
func (c *Cache) Clear() error {
	if c.Root == "" {
		return nil
	}
	if err := os.RemoveAll(c.Root); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", c.Root, err)
	}
	if err := os.MkdirAll(c.Root, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// PathFor returns where the archive downloaded from url is stored
func (c *Cache) PathFor(url, filename string) string {
	return GetCachePath(c.Root, url, filename)
}

// VersionDir returns the extraction directory for a release version
func (c *Cache) VersionDir(version string) string {
	return filepath.Join(c.Root, version)
}

// GetCachePath generates a cache path for a URL and filename
// Format: {cacheDir}/{url-hash}/{filename}
func GetCachePath(cacheDir, url, filename string) string {
	if cacheDir == "" {
		return ""
	}

	// Create a hash of the URL to avoid path length issues
	urlHash := hashURL(url)
	return filepath.Join(cacheDir, urlHash, filename)
}

// IsCached checks if a file exists in the cache
// Returns the cache path and true if cached, empty string and false otherwise
func IsCached(cacheDir, url, filename string) (string, bool) {
	if cacheDir == "" {
		return "", false
	}

	cachePath := GetCachePath(cacheDir, url, filename)
	if info, err := os.Stat(cachePath); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		return cachePath, true
	}
	return "", false
}

// hashURL creates a short hash of a URL for directory naming
func hashURL(url string) string {
	// Normalize URL by removing protocol and trailing slashes
	normalized := strings.TrimPrefix(url, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	normalized = strings.TrimSuffix(normalized, "/")

	// Create SHA256 hash and take first 16 chars for readability
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hash[:8])
}
