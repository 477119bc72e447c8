package installer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/flanksource/phantomjs-installer/pkg/release"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeFile(path string, mode os.FileMode) {
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte("#!/bin/sh\necho 2.1.1\n"), mode)).To(Succeed())
	Expect(os.Chmod(path, mode)).To(Succeed())
}

var _ = Describe("InstallBinary", func() {
	var root, binDir string

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("executable bits are not available on windows")
		}
		root = GinkgoT().TempDir()
		binDir = filepath.Join(GinkgoT().TempDir(), "vendor", "bin")
	})

	It("installs only the executable match", func() {
		writeFile(filepath.Join(root, "v2.1.1", "subdir", "phantomjs"), 0o755)
		writeFile(filepath.Join(root, "v2.1.1", "phantomjs.1"), 0o644)
		writeFile(filepath.Join(root, "v2.1.1", "doc", "phantomjs"), 0o644)

		desc := &release.Descriptor{Version: "2.1.1", Binaries: []string{"phantomjs"}, TargetDir: root}
		installation, err := InstallBinary(desc, binDir, nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(installation.Matched).To(ConsistOf(
			filepath.Join(root, "v2.1.1", "subdir", "phantomjs"),
			filepath.Join(root, "v2.1.1", "doc", "phantomjs"),
		))
		Expect(installation.Installed).To(Equal([]string{filepath.Join(binDir, "phantomjs")}))

		info, err := os.Stat(filepath.Join(binDir, "phantomjs"))
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Mode() & 0o100).ToNot(BeZero())

		entries, err := os.ReadDir(binDir)
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(1))

		_, err = os.Stat(filepath.Join(root, "v2.1.1", "subdir", "phantomjs"))
		Expect(os.IsNotExist(err)).To(BeTrue(), "source is removed after the copy")
		_, err = os.Stat(filepath.Join(root, "v2.1.1", "doc", "phantomjs"))
		Expect(err).ToNot(HaveOccurred(), "non-executable matches stay in place")
	})

	It("matches a binary at the extraction root", func() {
		writeFile(filepath.Join(root, "phantomjs"), 0o755)

		desc := &release.Descriptor{Binaries: []string{"phantomjs"}, TargetDir: root}
		installation, err := InstallBinary(desc, binDir, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(installation.Installed).To(HaveLen(1))
	})

	It("reports missing binaries grouped by name", func() {
		writeFile(filepath.Join(root, "phantomjs-2.1.1", "README.md"), 0o644)

		desc := &release.Descriptor{Binaries: []string{"phantomjs", "bin/phantomjs"}, TargetDir: root}
		installation, err := InstallBinary(desc, binDir, nil)
		Expect(errors.Is(err, ErrBinaryNotLocated)).To(BeTrue())
		Expect(err.Error()).To(HaveSuffix(": phantomjs"))
		Expect(installation.Matched).To(BeEmpty())

		_, statErr := os.Stat(binDir)
		Expect(os.IsNotExist(statErr)).To(BeTrue(), "nothing is created when no binary matched")
	})

	It("replaces an existing binary", func() {
		writeFile(filepath.Join(binDir, "phantomjs"), 0o755)
		Expect(os.WriteFile(filepath.Join(binDir, "phantomjs"), []byte("old"), 0o755)).To(Succeed())
		writeFile(filepath.Join(root, "bin", "phantomjs"), 0o755)

		_, err := InstallBinary(&release.Descriptor{Binaries: []string{"phantomjs"}, TargetDir: root}, binDir, nil)
		Expect(err).ToNot(HaveOccurred())
		data, err := os.ReadFile(filepath.Join(binDir, "phantomjs"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("echo 2.1.1"))
	})
})

var _ = Describe("Walk", func() {
	It("visits nested files depth first", func() {
		root := GinkgoT().TempDir()
		writeFile(filepath.Join(root, "a", "b", "c", "deep"), 0o644)
		writeFile(filepath.Join(root, "top"), 0o644)

		var files []string
		for path, err := range Walk(root) {
			Expect(err).ToNot(HaveOccurred())
			files = append(files, path)
		}
		Expect(files).To(Equal([]string{
			filepath.Join(root, "a", "b", "c", "deep"),
			filepath.Join(root, "top"),
		}))
	})

	It("follows symlinked directories once", func() {
		if runtime.GOOS == "windows" {
			Skip("symlinks need privileges on windows")
		}
		root := GinkgoT().TempDir()
		writeFile(filepath.Join(root, "real", "phantomjs"), 0o755)
		Expect(os.Symlink(root, filepath.Join(root, "real", "loop"))).To(Succeed())
		Expect(os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias"))).To(Succeed())

		var files []string
		for path, err := range Walk(root) {
			Expect(err).ToNot(HaveOccurred())
			files = append(files, path)
		}
		Expect(files).To(HaveLen(1))
	})

	It("stops when the consumer breaks", func() {
		root := GinkgoT().TempDir()
		writeFile(filepath.Join(root, "one"), 0o644)
		writeFile(filepath.Join(root, "two"), 0o644)

		count := 0
		for range Walk(root) {
			count++
			break
		}
		Expect(count).To(Equal(1))
	})

	It("skips subdirectories that cannot be read", func() {
		root := GinkgoT().TempDir()
		writeFile(filepath.Join(root, "locked", "phantomjs"), 0o755)
		writeFile(filepath.Join(root, "open", "bin", "phantomjs"), 0o755)

		locked := filepath.Join(root, "locked")
		readDir = func(dir string) ([]os.DirEntry, error) {
			if dir == locked {
				return nil, os.ErrPermission
			}
			return os.ReadDir(dir)
		}
		DeferCleanup(func() { readDir = os.ReadDir })

		var files []string
		for path, err := range Walk(root) {
			Expect(err).ToNot(HaveOccurred())
			files = append(files, path)
		}
		Expect(files).To(Equal([]string{filepath.Join(root, "open", "bin", "phantomjs")}))

		matches, err := FindBinaries(root, []string{"phantomjs"})
		Expect(err).ToNot(HaveOccurred())
		Expect(matches).To(HaveLen(1))
	})

	It("yields an error for a missing root", func() {
		var errs []error
		for _, err := range Walk(filepath.Join(GinkgoT().TempDir(), "missing")) {
			errs = append(errs, err)
		}
		Expect(errs).To(HaveLen(1))
		Expect(errs[0]).To(HaveOccurred())
	})
})

var _ = Describe("ResolveExtractionRoot", func() {
	It("keeps absolute paths", func() {
		dir := GinkgoT().TempDir()
		Expect(ResolveExtractionRoot(dir)).To(Equal(dir))
	})

	It("anchors a relative path that exists at the filesystem root", func() {
		if runtime.GOOS == "windows" {
			Skip("no single filesystem root on windows")
		}
		dir := GinkgoT().TempDir()
		relative := dir[1:]
		Expect(ResolveExtractionRoot(relative)).To(Equal(dir))
	})

	It("leaves other relative paths alone", func() {
		Expect(ResolveExtractionRoot("does/not/exist/anywhere")).To(Equal("does/not/exist/anywhere"))
	})
})
