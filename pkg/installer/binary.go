package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/release"
	"github.com/flanksource/phantomjs-installer/pkg/utils"
	"github.com/samber/lo"
)

// ErrBinaryNotLocated is returned when the extracted archive has none of the expected binaries
var ErrBinaryNotLocated = errors.New("could not locate the binary in the downloaded source")

// Installation lists the files matched in the archive and those copied to the bin directory
type Installation struct {
	Matched   []string
	Installed []string
}

// ResolveExtractionRoot prefers the root-anchored form of a relative dir when it exists
func ResolveExtractionRoot(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	anchored := string(filepath.Separator) + dir
	if _, err := os.Stat(anchored); err == nil {
		return anchored
	}
	return dir
}

// FindBinaries returns every file below root whose name matches one of names
func FindBinaries(root string, names []string) ([]string, error) {
	patterns := lo.Map(names, func(name string, _ int) string {
		return "**/" + filepath.ToSlash(name)
	})

	var matches []string
	for path, err := range Walk(root) {
		if err != nil {
			return matches, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matches = append(matches, path)
				break
			}
		}
	}
	return matches, nil
}

// IsExecutable reports whether path can be run. On Windows, and for Windows
// binaries installed from another host, the extension decides.
func IsExecutable(path string, info os.FileInfo) bool {
	isExe := strings.EqualFold(filepath.Ext(path), ".exe")
	if runtime.GOOS == "windows" || isExe {
		return isExe && info.Mode().IsRegular()
	}
	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}

// InstallBinary moves every executable match of desc.Binaries below desc.TargetDir into binDir
func InstallBinary(desc *release.Descriptor, binDir string, out output.Output) (*Installation, error) {
	if out == nil {
		out = output.Discard{}
	}

	root := ResolveExtractionRoot(desc.TargetDir)
	matches, err := FindBinaries(root, desc.Binaries)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}

	missing := strings.Join(lo.Uniq(lo.Map(desc.Binaries, func(name string, _ int) string {
		return filepath.Base(name)
	})), ", ")
	utils.LogBinarySearch(out, root, missing, len(matches))

	result := &Installation{Matched: matches}
	if len(matches) == 0 {
		return result, fmt.Errorf("%w: %s", ErrBinaryNotLocated, missing)
	}

	executables := lo.Filter(matches, func(path string, _ int) bool {
		info, err := os.Stat(path)
		return err == nil && IsExecutable(path, info)
	})

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create %s: %w", binDir, err)
	}

	mode := os.FileMode(0o777) &^ processUmask()
	for _, src := range executables {
		dst := filepath.Join(binDir, filepath.Base(src))
		if err := utils.MoveFile(src, dst); err != nil {
			return result, fmt.Errorf("failed to install %s: %w", filepath.Base(src), err)
		}
		if err := os.Chmod(dst, mode); err != nil {
			out.Debugf("Could not set permissions on %s: %v", utils.LogPath(dst), err)
		}
		utils.LogInstalledBinary(out, dst)
		result.Installed = append(result.Installed, dst)
	}

	return result, nil
}
