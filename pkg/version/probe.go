package version

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flanksource/clicky"
	"github.com/flanksource/phantomjs-installer/pkg/output"
	"github.com/flanksource/phantomjs-installer/pkg/platform"
)

// BinaryName is the executable the installer manages
const BinaryName = "phantomjs"

// VersionFlag makes the binary print its version and exit
const VersionFlag = "-v"

// Runner executes a binary and returns its standard output
type Runner func(path string, args ...string) (string, error)

// ExecRunner runs the binary through clicky. Only stdout is returned, headless
// builds print Qt warnings on stderr.
func ExecRunner(path string, args ...string) (string, error) {
	result := clicky.Exec(path, args...).Run()
	if result.Err != nil {
		return "", result.Err
	}
	return result.GetStdout(), nil
}

// Probe reads the version reported by an already installed binary
type Probe struct {
	BinDir   string
	Platform platform.Info
	Run      Runner
	Out      output.Output
}

// BinaryPath returns the real path of the installed binary, or "" when absent
func (p Probe) BinaryPath() string {
	path := filepath.Join(p.BinDir, p.Platform.BinaryName(BinaryName))
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(real); err != nil || info.IsDir() {
		return ""
	}
	abs, err := filepath.Abs(real)
	if err != nil {
		return real
	}
	return abs
}

// InstalledVersion returns the first line printed by "phantomjs -v", or "" when the
// binary is missing or cannot report a version
func (p Probe) InstalledVersion() string {
	path := p.BinaryPath()
	if path == "" {
		return ""
	}

	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	out := p.Out
	if out == nil {
		out = output.Logger{}
	}

	stdout, err := run(path, VersionFlag)
	if err == nil {
		if line := firstLine(stdout); line != "" {
			out.Debugf("Found PhantomJS %s at %s", line, path)
			return line
		}
		err = fmt.Errorf("no version printed")
	}

	out.Warnf("Caught error while checking PhantomJS version:\n%v", err)
	out.Noticef("Re-downloading PhantomJS")
	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
