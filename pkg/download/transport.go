package download

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/flanksource/clicky/task"
	"github.com/flanksource/phantomjs-installer/pkg/cache"
	"github.com/flanksource/phantomjs-installer/pkg/checksum"
	"github.com/flanksource/phantomjs-installer/pkg/extract"
	depshttp "github.com/flanksource/phantomjs-installer/pkg/http"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/release"
)

// Fetcher downloads a release and unpacks it into the descriptor target directory
type Fetcher interface {
	Fetch(ctx context.Context, desc *release.Descriptor) error
}

// Transport fetches release archives over HTTP into a cache
type Transport struct {
	Client *http.Client
	Cache  *cache.Cache
	Task   *task.Task
	Out    output.Output
	// Checksums maps an archive filename to its pinned digest
	Checksums map[string]string
}

// NewTransport returns a Transport storing archives in c
func NewTransport(c *cache.Cache, t *task.Task) *Transport {
	return &Transport{
		Client: depshttp.GetHttpClient(),
		Cache:  c,
		Task:   t,
		Out:    output.ForTask(t),
	}
}

// Fetch downloads desc.URL, reusing an archive already fetched during this run, and
// extracts it into desc.TargetDir
func (tr *Transport) Fetch(ctx context.Context, desc *release.Descriptor) error {
	if !extract.IsArchive(desc.URL) {
		return fmt.Errorf("%w: %s", extract.ErrUnsupportedArchive, desc.Filename())
	}

	out := tr.Out
	if out == nil {
		out = output.ForTask(tr.Task)
	}
	client := tr.Client
	if client == nil {
		client = depshttp.GetHttpClient()
	}
	c := tr.Cache
	if c == nil {
		c = cache.New(os.TempDir())
	}

	filename := desc.Filename()
	archive, cached := cache.IsCached(c.Root, desc.URL, filename)
	if cached {
		out.Debugf("Found in cache: %s", archive)
	} else {
		archive = c.PathFor(desc.URL, filename)
		if err := Download(ctx, client, desc.URL, archive, tr.Task, out); err != nil {
			return err
		}
	}

	if expected := tr.Checksums[filename]; expected != "" {
		if err := checksum.VerifyChecksum(archive, expected); err != nil {
			_ = os.Remove(archive)
			return err
		}
		out.Debugf("Verified %s", checksum.FormatChecksum(checksum.ParseChecksum(expected)))
	}

	if _, err := extract.Extract(archive, desc.TargetDir, out); err != nil {
		return err
	}
	return nil
}
