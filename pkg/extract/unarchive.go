package extract

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flanksource/commons/files"
)

// ErrUnsupportedArchive is returned for archive formats that cannot be extracted
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// Unarchive extracts src into dest using flanksource/commons/files.
// bzip2 tarballs are not handled there, they are decompressed to a plain tar first.
func Unarchive(src, dest string, opts ...files.UnarchiveOption) (*files.Archive, error) {
	switch GetExtension(src) {
	case ".tar.bz2", ".tbz2", ".tbz":
		tarball, err := bunzip(src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tarball)
		return files.Unarchive(tarball, dest, opts...)
	case ".zip", ".jar", ".tar", ".tar.gz", ".tgz", ".tar.xz", ".txz":
		return files.Unarchive(src, dest, opts...)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(src))
}

// bunzip writes the tar stream of a bzip2 archive to a temporary file
func bunzip(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp("", "phantomjs-*.tar")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary tarball: %w", err)
	}
	if _, err := io.Copy(out, bzip2.NewReader(in)); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to decompress %s: %w", filepath.Base(src), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}
