package mock

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/flanksource/phantomjs-installer/pkg/download"
	"github.com/flanksource/phantomjs-installer/pkg/release"
)

// File is written into the target directory of a successful fetch
type File struct {
	Path    string
	Content string
	Mode    os.FileMode
}

// Transport is a download.Fetcher that never touches the network
type Transport struct {
	mu sync.Mutex
	// Errors maps a version to the error its fetch returns
	Errors map[string]error
	// Layout returns the files a successful fetch writes, relative to the target dir.
	// Defaults to ReleaseLayout.
	Layout func(desc *release.Descriptor) []File
	// Attempts records every fetched descriptor in order
	Attempts []*release.Descriptor
}

var _ download.Fetcher = (*Transport)(nil)

// NewTransport creates a Transport where every version downloads
func NewTransport() *Transport {
	return &Transport{Errors: map[string]error{}}
}

// NotFound makes the fetch of each version fail with a 404
func (t *Transport) NotFound(versions ...string) *Transport {
	return t.Status(http.StatusNotFound, versions...)
}

// Status makes the fetch of each version fail with an HTTP status
func (t *Transport) Status(code int, versions ...string) *Transport {
	for _, v := range versions {
		t.Errors[v] = &download.TransportError{URL: "mock://" + v, StatusCode: code}
	}
	return t
}

// Versions returns the attempted versions in order
func (t *Transport) Versions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var versions []string
	for _, d := range t.Attempts {
		versions = append(versions, d.Version)
	}
	return versions
}

func (t *Transport) Fetch(_ context.Context, desc *release.Descriptor) error {
	t.mu.Lock()
	t.Attempts = append(t.Attempts, desc)
	err := t.Errors[desc.Version]
	t.mu.Unlock()
	if err != nil {
		return err
	}

	layout := t.Layout
	if layout == nil {
		layout = ReleaseLayout
	}
	for _, f := range layout(desc) {
		path := filepath.Join(desc.TargetDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(f.Content), f.Mode); err != nil {
			return err
		}
		if err := os.Chmod(path, f.Mode); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseLayout mimics an official archive: the binary below bin/ next to docs
func ReleaseLayout(desc *release.Descriptor) []File {
	root := "phantomjs-" + desc.Version + "/"
	files := []File{
		{Path: root + "README.md", Content: "PhantomJS\n", Mode: 0o644},
		{Path: root + "LICENSE.BSD", Content: "BSD\n", Mode: 0o644},
	}
	for _, bin := range desc.Binaries {
		files = append(files, File{
			Path:    root + "bin/" + bin,
			Content: "#!/bin/sh\necho " + desc.Version + "\n",
			Mode:    0o755,
		})
	}
	return files
}
