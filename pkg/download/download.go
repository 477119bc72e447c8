package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/clicky/task"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/utils"
)

// TransportError is a failed HTTP transfer. StatusCode is 0 when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("download failed: HTTP %d for %s: %v", e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("download failed: HTTP %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the server answered 404
func (e *TransportError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ProgressReader wraps an io.Reader and reports progress
type ProgressReader struct {
	io.Reader
	total      int64
	current    int64
	task       *task.Task
	lastUpdate time.Time
	startTime  time.Time
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.current += int64(n)

	// Update progress at most once per 100ms to avoid excessive updates
	now := time.Now()
	if now.Sub(pr.lastUpdate) >= 100*time.Millisecond {
		if pr.total > 0 {
			pr.task.SetProgress(int(pr.current), int(pr.total))

			elapsed := now.Sub(pr.startTime).Seconds()
			if elapsed > 0 {
				speed := float64(pr.current) / elapsed
				remaining := pr.total - pr.current
				eta := time.Duration(float64(remaining) / speed * float64(time.Second))

				pr.task.SetDescription(fmt.Sprintf("%s/%s (%.1f MB/s, ETA: %s)",
					utils.FormatBytes(pr.current),
					utils.FormatBytes(pr.total),
					speed/1024/1024,
					formatDuration(eta)))
			}
		} else {
			pr.task.SetDescription(fmt.Sprintf("Downloaded %s", utils.FormatBytes(pr.current)))
		}
		pr.lastUpdate = now
	}

	return n, err
}

// Download fetches url into dest through client. The file only appears at dest once
// the whole body was received.
func Download(ctx context.Context, client *http.Client, url, dest string, t *task.Task, out output.Output) error {
	if out == nil {
		out = output.ForTask(t)
	}

	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}

	utils.LogDownloadStart(out, url)
	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	if final := resp.Request.URL.String(); final != url {
		out.Debugf("Redirect: %s -> %s", utils.Host(url), final)
	}

	tempFile := dest + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tempFile, err)
	}
	defer func() {
		f.Close()
		// Clean up temp file if it still exists (not renamed)
		if _, err := os.Stat(tempFile); err == nil {
			os.Remove(tempFile)
		}
	}()

	var reader io.Reader = resp.Body
	if t != nil {
		if resp.ContentLength > 0 {
			t.SetDescription(fmt.Sprintf("Downloading (%s)", utils.FormatBytes(resp.ContentLength)))
		}
		reader = &ProgressReader{
			Reader:     resp.Body,
			total:      resp.ContentLength,
			task:       t,
			startTime:  time.Now(),
			lastUpdate: time.Now(),
		}
	}

	written, err := io.Copy(f, reader)
	if err != nil {
		return &TransportError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return &TransportError{URL: url, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("received %d of %d bytes", written, resp.ContentLength)}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tempFile, err)
	}
	if err := os.Rename(tempFile, dest); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	out.Debugf("Downloaded %s (%s)", utils.LogPath(dest), utils.FormatBytes(written))
	return nil
}

// formatDuration formats duration into human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
