package phantomjs_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	phantomjs "github.com/flanksource/phantomjs-installer"
	"github.com/flanksource/phantomjs-installer/mock"
	"github.com/flanksource/phantomjs-installer/pkg/config"
	"github.com/flanksource/phantomjs-installer/pkg/plugin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const fixture = "phantomjs-2.1.1-linux-x86_64.tar.bz2"

// cdn serves the release fixture and answers 404 for everything else
type cdn struct {
	*httptest.Server
	mu         sync.Mutex
	requests   []string
	userAgents []string
}

func newCDN() *cdn {
	c := &cdn{}
	archive, err := os.ReadFile(filepath.Join("pkg", "extract", "testdata", fixture))
	Expect(err).ToNot(HaveOccurred())

	c.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests = append(c.requests, r.URL.Path)
		c.userAgents = append(c.userAgents, r.UserAgent())
		c.mu.Unlock()

		if r.URL.Path != "/downloads/"+fixture {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(archive)))
		_, _ = w.Write(archive)
	}))
	return c
}

func (c *cdn) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func writeProject(dir, version, cdnURL string) {
	files := map[string]string{
		"composer.json": fmt.Sprintf(`{
  "name": "acme/site",
  "config": {"bin-dir": "tools/bin", "cache-dir": ".cache"},
  "extra": {"phantomjs-installer": {"cdnurl": %q}}
}`, cdnURL),
		"vendor/composer/installed.json": fmt.Sprintf(`{
  "packages": [
    {"name": "vaimo/phantomjs-installer", "type": "composer-plugin", "version": %q,
     "autoload": {"psr-4": {"Vaimo\\PhantomInstaller\\": "src/"}}}
  ]
}`, version),
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}
}

var _ = Describe("Composer hook", func() {
	var (
		server   *cdn
		project  string
		recorder *mock.Recorder
	)

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("the fixture ships a linux binary")
		}
		server = newCDN()
		DeferCleanup(server.Close)
		project = GinkgoT().TempDir()
		recorder = mock.NewRecorder()
	})

	options := func(extra ...phantomjs.InstallOption) []phantomjs.InstallOption {
		return append([]phantomjs.InstallOption{
			phantomjs.WithProjectDir(project),
			phantomjs.WithPlatformConfig(config.PlatformConfig{OSOverride: "linux", BitsizeOverride: "64"}),
			phantomjs.WithOutput(recorder),
		}, extra...)
	}

	It("downloads, extracts and installs the pinned release", func() {
		writeProject(project, "2.1.1", server.URL+"/downloads")

		result, err := phantomjs.Hook(context.Background(), plugin.PostInstallCmd, options()...)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Status).To(Equal(phantomjs.InstallStatusInstalled))
		Expect(result.URL).To(Equal(server.URL + "/downloads/" + fixture))

		binary := filepath.Join(project, "tools", "bin", "phantomjs")
		info, err := os.Stat(binary)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Mode() & 0o100).ToNot(BeZero())

		Expect(server.Requests()).To(Equal([]string{"/downloads/" + fixture}))
		Expect(server.userAgents).To(ContainElement("phantomjs-installer"))

		archive := filepath.Join(project, ".cache", "files", "phantomjs-installer", "downloaded-bin")
		Expect(archive).To(BeADirectory())
	})

	It("falls back to the newest published release", func() {
		writeProject(project, "2.5.0", server.URL+"/downloads/")

		result, err := phantomjs.Hook(context.Background(), plugin.PostUpdateCmd, options()...)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Status).To(Equal(phantomjs.InstallStatusInstalled))
		Expect(result.RequestedVersion).To(Equal("2.5.0"))
		Expect(result.DownloadedVersion).To(Equal("2.1.1"))
		Expect(server.Requests()).To(Equal([]string{
			"/downloads/phantomjs-2.5.0-linux-x86_64.tar.bz2",
			"/downloads/" + fixture,
		}))
		Expect(recorder.Contains(mock.LevelWarn, "retrying: 2.1.1")).To(BeTrue())
	})

	It("fails without an error when no release can be found", func() {
		writeProject(project, "2.0.0", server.URL+"/missing/")

		result, err := phantomjs.Hook(context.Background(), plugin.PostInstallCmd, options()...)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Status).To(Equal(phantomjs.InstallStatusFailed))
		Expect(server.Requests()).To(HaveLen(3))
		Expect(recorder.Messages(mock.LevelError)).To(ContainElement("Failed to download PhantomJS"))
	})

	It("leaves an up to date installation alone", func() {
		writeProject(project, "2.1.1", server.URL+"/downloads/")

		_, err := phantomjs.InstallWithContext(context.Background(), options()...)
		Expect(err).ToNot(HaveOccurred())

		result, err := phantomjs.InstallWithContext(context.Background(), options(phantomjs.WithVersionProbe(mock.Probe("2.1.1")))...)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Status).To(Equal(phantomjs.InstallStatusAlreadyInstalled))
		Expect(server.Requests()).To(HaveLen(1))
	})

	It("reads the installed version from the binary", func() {
		writeProject(project, "2.1.1", server.URL+"/downloads/")

		_, err := phantomjs.InstallWithContext(context.Background(), options()...)
		Expect(err).ToNot(HaveOccurred())

		result, err := phantomjs.InstallWithContext(context.Background(), options()...)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.InstalledVersion).To(Equal("2.1.1"))
		Expect(result.Status).To(Equal(phantomjs.InstallStatusAlreadyInstalled))
	})

	It("rejects events it does not subscribe to", func() {
		writeProject(project, "2.1.1", server.URL+"/downloads/")

		_, err := phantomjs.Hook(context.Background(), "pre-install-cmd", options()...)
		Expect(errors.Is(err, plugin.ErrUnknownEvent)).To(BeTrue())
		Expect(server.Requests()).To(BeEmpty())
	})
})
