package platform

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/flanksource/phantomjs-installer/pkg/config"
)

// OS is the logical operating system a release archive is published for
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	MacOSX  OS = "macosx"
	Unknown OS = "unknown"
)

// Known lists every OS a release exists for
var Known = []OS{Windows, Linux, MacOSX}

// Info is the platform detected for a single run
type Info struct {
	OS      OS     `json:"os" yaml:"os"`
	Bitsize string `json:"bitsize" yaml:"bitsize"`
}

// String returns a string representation of the platform (e.g., "linux-64")
func (i Info) String() string {
	return fmt.Sprintf("%s-%s", i.OS, i.Bitsize)
}

// IsUnknown returns true when the OS could not be determined
func (i Info) IsUnknown() bool {
	return i.OS == Unknown || i.OS == ""
}

// IsWindows returns true if the platform is Windows
func (i Info) IsWindows() bool {
	return i.OS == Windows
}

// BinaryExtension returns the binary extension for the platform
func (i Info) BinaryExtension() string {
	if i.IsWindows() {
		return ".exe"
	}
	return ""
}

// BinaryName adds the appropriate binary extension to a filename
func (i Info) BinaryName(name string) string {
	ext := i.BinaryExtension()
	if ext == "" || strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// systemName is the identification string matched when no override is set
var systemName = func() string {
	return runtime.GOOS + " " + kernelName()
}

// wordSize is the native word width of the running process in bits
var wordSize = strconv.IntSize

// Detect resolves the platform, honouring the overrides in cfg
func Detect(cfg config.PlatformConfig) Info {
	return Info{
		OS:      detectOS(cfg.OSOverride),
		Bitsize: detectBitsize(cfg.BitsizeOverride),
	}
}

func detectOS(override string) OS {
	if override != "" {
		switch OS(strings.ToLower(override)) {
		case Windows:
			return Windows
		case Linux:
			return Linux
		case MacOSX:
			return MacOSX
		default:
			return Unknown
		}
	}
	return ParseOS(systemName())
}

// ParseOS maps a system identification string to an OS.
// darwin is checked before win since "darwin" contains "win".
func ParseOS(name string) OS {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "darwin"),
		strings.Contains(name, "openbsd"),
		strings.Contains(name, "freebsd"):
		return MacOSX
	case strings.Contains(name, "win"):
		return Windows
	case strings.Contains(name, "linux"):
		return Linux
	default:
		return Unknown
	}
}

func detectBitsize(override string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	switch wordSize {
	case 32:
		return "32"
	case 64:
		return "64"
	default:
		return strconv.Itoa(wordSize)
	}
}

// Suggest returns the known OS closest to an unrecognised override, or "" when
// nothing is reasonably close
func Suggest(override string) OS {
	override = strings.ToLower(override)
	best, bestDistance := Unknown, -1
	for _, os := range Known {
		d := levenshtein.ComputeDistance(override, string(os))
		if bestDistance == -1 || d < bestDistance {
			best, bestDistance = os, d
		}
	}
	if bestDistance < 0 || bestDistance > len(best)/2 {
		return ""
	}
	return best
}
