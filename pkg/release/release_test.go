package release

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/platform"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildDownloadURL", func() {
	bases := []string{
		"https://cdn.example.com/phantomjs",
		"https://cdn.example.com/phantomjs/",
		"https://cdn.example.com/phantomjs///",
	}

	DescribeTable("produces base plus filename for every supported platform",
		func(info platform.Info, filename string) {
			for _, base := range bases {
				url, err := BuildDownloadURL("2.1.1", info, base)
				Expect(err).ToNot(HaveOccurred())
				Expect(url).To(Equal("https://cdn.example.com/phantomjs/" + filename))
				Expect(strings.TrimSuffix(url, filename)).To(HaveSuffix("phantomjs/"))
				Expect(strings.TrimSuffix(url, filename)).ToNot(HaveSuffix("//"))
			}
		},
		Entry("windows", platform.Info{OS: platform.Windows, Bitsize: "64"}, "phantomjs-2.1.1-windows.zip"),
		Entry("windows 32", platform.Info{OS: platform.Windows, Bitsize: "32"}, "phantomjs-2.1.1-windows.zip"),
		Entry("linux 32", platform.Info{OS: platform.Linux, Bitsize: "32"}, "phantomjs-2.1.1-linux-i686.tar.bz2"),
		Entry("linux 64", platform.Info{OS: platform.Linux, Bitsize: "64"}, "phantomjs-2.1.1-linux-x86_64.tar.bz2"),
		Entry("macosx", platform.Info{OS: platform.MacOSX, Bitsize: "64"}, "phantomjs-2.1.1-macosx.zip"),
	)

	DescribeTable("rejects platforms without a release",
		func(info platform.Info) {
			_, err := BuildDownloadURL("2.1.1", info, DefaultCDNURL)
			var unsupported *UnsupportedPlatformError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.Platform).To(Equal(info))
			Expect(err.Error()).To(ContainSubstring("install PhantomJS manually into the bin folder"))
		},
		Entry("linux with an odd bitsize", platform.Info{OS: platform.Linux, Bitsize: "16"}),
		Entry("unknown os", platform.Info{OS: platform.Unknown, Bitsize: "64"}),
		Entry("empty os", platform.Info{}),
	)
})

var _ = Describe("CDNBase", func() {
	It("prefers the environment override", func() {
		Expect(CDNBase("https://env.example.com", "https://extra.example.com", "https://default.example.com", "2.1.1")).
			To(Equal("https://env.example.com/"))
	})

	It("falls back to the project configuration", func() {
		Expect(CDNBase("", "https://extra.example.com/", "https://default.example.com", "2.1.1")).
			To(Equal("https://extra.example.com/"))
	})

	It("falls back to the configured default", func() {
		Expect(CDNBase("", "", "https://default.example.com//", "2.1.1")).To(Equal("https://default.example.com/"))
	})

	It("uses the built-in default when nothing is set", func() {
		Expect(CDNBase("", "", "", "2.1.1")).To(Equal(DefaultCDNURL))
	})

	It("expands the legacy GitHub layout", func() {
		Expect(CDNBase("https://github.com/medium/phantomjs", "", "", "2.1.1")).
			To(Equal("https://github.com/medium/phantomjs/releases/download/v2.1.1/"))
	})

	It("matches the legacy layout case-insensitively", func() {
		Expect(CDNBase("https://GitHub.com/Medium/PhantomJS/", "", "", "1.9.8")).
			To(Equal("https://GitHub.com/Medium/PhantomJS/releases/download/v1.9.8/"))
	})

	It("leaves other GitHub paths alone", func() {
		Expect(CDNBase("https://github.com/ariya/phantomjs/", "", "", "2.1.1")).
			To(Equal("https://github.com/ariya/phantomjs/"))
	})
})

var _ = Describe("Descriptor", func() {
	It("infers the archive kind from the URL", func() {
		Expect(KindOf("https://cdn.example.com/phantomjs-2.1.1-windows.zip")).To(Equal(KindZip))
		Expect(KindOf("https://cdn.example.com/phantomjs-2.1.1-windows.ZIP?x=1")).To(Equal(KindZip))
		Expect(KindOf("https://cdn.example.com/phantomjs-2.1.1-linux-x86_64.tar.bz2")).To(Equal(KindTar))
		Expect(KindOf("https://cdn.example.com/archive")).To(Equal(KindTar))
	})

	It("builds a windows descriptor", func() {
		info := platform.Info{OS: platform.Windows, Bitsize: "64"}
		desc, err := NewDescriptor("2.1.1", info, "https://cdn.example.com", "/tmp/dl")
		Expect(err).ToNot(HaveOccurred())
		Expect(desc.Name).To(Equal(PackageName))
		Expect(desc.Version).To(Equal("2.1.1"))
		Expect(desc.URL).To(Equal("https://cdn.example.com/phantomjs-2.1.1-windows.zip"))
		Expect(desc.Kind).To(Equal(KindZip))
		Expect(desc.Binaries).To(Equal([]string{"phantomjs.exe"}))
		Expect(desc.TargetDir).To(Equal("/tmp/dl"))
		Expect(desc.Filename()).To(Equal("phantomjs-2.1.1-windows.zip"))
	})

	It("builds per-version descriptors through a Builder", func() {
		b := Builder{
			Platform:    platform.Info{OS: platform.Linux, Bitsize: "64"},
			CDNOverride: "https://github.com/medium/phantomjs/",
			TargetDir: func(version string) string {
				return filepath.Join("downloads", version)
			},
		}
		desc, err := b.Descriptor("2.0.0")
		Expect(err).ToNot(HaveOccurred())
		Expect(desc.URL).To(Equal("https://github.com/medium/phantomjs/releases/download/v2.0.0/phantomjs-2.0.0-linux-x86_64.tar.bz2"))
		Expect(desc.Kind).To(Equal(KindTar))
		Expect(desc.Binaries).To(Equal([]string{"phantomjs"}))
		Expect(desc.TargetDir).To(Equal(filepath.Join("downloads", "2.0.0")))
	})

	It("propagates unsupported platforms from a Builder", func() {
		b := Builder{Platform: platform.Info{OS: platform.Linux, Bitsize: "128"}}
		_, err := b.Descriptor("2.1.1")
		var unsupported *UnsupportedPlatformError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
	})
})

var _ = Describe("Filenames", func() {
	linux64 := platform.Info{OS: platform.Linux, Bitsize: "64"}

	It("prefers an os and bitsize override", func() {
		f := Filenames{"linux-64": "phantomjs-{{.version}}-static.tar.gz", "linux": "ignored.zip"}
		url, err := f.URL("2.1.1", linux64, "https://mirror.example.com")
		Expect(err).ToNot(HaveOccurred())
		Expect(url).To(Equal("https://mirror.example.com/phantomjs-2.1.1-static.tar.gz"))
	})

	It("falls back to an os override", func() {
		f := Filenames{"linux": "phantomjs-{{.version}}-linux{{.bitsize}}.tar.xz"}
		name, err := f.Render("1.9.8", linux64)
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(Equal("phantomjs-1.9.8-linux64.tar.xz"))
	})

	It("uses the built-in names for other platforms", func() {
		f := Filenames{"linux-64": "custom.zip"}
		Expect(f.Template(platform.Info{OS: platform.MacOSX, Bitsize: "64"})).To(Equal("phantomjs-{{.version}}-macosx.zip"))
	})

	It("can add a platform without a release", func() {
		info := platform.Info{OS: platform.Linux, Bitsize: "16"}
		_, err := Filenames(nil).Render("2.1.1", info)
		Expect(err).To(HaveOccurred())
		name, err := Filenames{"linux-16": "phantomjs-{{.version}}-linux16.zip"}.Render("2.1.1", info)
		Expect(err).ToNot(HaveOccurred())
		Expect(name).To(Equal("phantomjs-2.1.1-linux16.zip"))
	})

	It("flows into Builder descriptors", func() {
		b := Builder{Platform: linux64, CDNDefault: "https://cdn.example.com", Filenames: Filenames{"linux": "phantomjs-{{.version}}.zip"}}
		desc, err := b.Descriptor("2.0.0")
		Expect(err).ToNot(HaveOccurred())
		Expect(desc.URL).To(Equal("https://cdn.example.com/phantomjs-2.0.0.zip"))
		Expect(desc.Kind).To(Equal(KindZip))
	})
})
