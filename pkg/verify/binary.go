package verify

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"os"

	"github.com/flanksource/phantomjs-installer/pkg/platform"
)

// Format is the executable file format of a binary
type Format string

const (
	FormatELF     Format = "elf"
	FormatMachO   Format = "macho"
	FormatPE      Format = "pe"
	FormatScript  Format = "script"
	FormatUnknown Format = "unknown"
)

// BinaryInfo contains the platform a binary was built for
type BinaryInfo struct {
	OS      platform.OS
	Arch    string
	Bitsize string
	Format  Format
}

// Known reports whether the format carries platform information
func (b *BinaryInfo) Known() bool {
	return b.Format == FormatELF || b.Format == FormatMachO || b.Format == FormatPE
}

func (b *BinaryInfo) String() string {
	if !b.Known() {
		return string(b.Format)
	}
	return fmt.Sprintf("%s-%s (%s %s)", b.OS, b.Bitsize, b.Format, b.Arch)
}

// MismatchError is returned when a binary was built for another platform
type MismatchError struct {
	Path     string
	Expected platform.Info
	Actual   *BinaryInfo
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s is built for %s, expected %s", e.Path, e.Actual, e.Expected)
}

var (
	elfMagic    = []byte{0x7f, 'E', 'L', 'F'}
	machoMagics = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce}, // 32-bit
		{0xfe, 0xed, 0xfa, 0xcf}, // 64-bit
		{0xce, 0xfa, 0xed, 0xfe}, // 32-bit swapped
		{0xcf, 0xfa, 0xed, 0xfe}, // 64-bit swapped
		{0xca, 0xfe, 0xba, 0xbe}, // universal
	}
)

// DetectBinaryPlatform detects the OS and architecture of a binary file
func DetectBinaryPlatform(path string) (*BinaryInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, 4)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return &BinaryInfo{Format: FormatUnknown}, nil
		}
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	magic = magic[:n]

	switch {
	case bytes.Equal(magic, elfMagic):
		return detectELF(path)
	case isMachO(magic):
		return detectMachO(path)
	case bytes.HasPrefix(magic, []byte("MZ")):
		return detectPE(path)
	case bytes.HasPrefix(magic, []byte("#!")):
		return &BinaryInfo{Format: FormatScript}, nil
	}
	return &BinaryInfo{Format: FormatUnknown}, nil
}

func isMachO(magic []byte) bool {
	for _, m := range machoMagics {
		if bytes.Equal(magic, m) {
			return true
		}
	}
	return false
}

func detectELF(path string) (*BinaryInfo, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF: %w", err)
	}
	defer func() { _ = f.Close() }()

	info := &BinaryInfo{OS: platform.Linux, Format: FormatELF}

	switch f.Machine {
	case elf.EM_X86_64:
		info.Arch = "amd64"
	case elf.EM_AARCH64:
		info.Arch = "arm64"
	case elf.EM_386:
		info.Arch = "386"
	case elf.EM_ARM:
		info.Arch = "arm"
	default:
		info.Arch = fmt.Sprintf("unknown(%d)", f.Machine)
	}

	// the class is authoritative, x32 and friends do not follow the machine
	if f.Class == elf.ELFCLASS64 {
		info.Bitsize = "64"
	} else {
		info.Bitsize = "32"
	}
	return info, nil
}

func detectMachO(path string) (*BinaryInfo, error) {
	f, err := macho.Open(path)
	if err != nil {
		fatFile, fatErr := macho.OpenFat(path)
		if fatErr != nil {
			return nil, fmt.Errorf("failed to parse Mach-O: %w", err)
		}
		defer func() { _ = fatFile.Close() }()

		if len(fatFile.Arches) > 0 {
			return machoCpuToInfo(fatFile.Arches[0].Cpu), nil
		}
		return &BinaryInfo{OS: platform.MacOSX, Format: FormatMachO, Arch: "universal"}, nil
	}
	defer func() { _ = f.Close() }()

	return machoCpuToInfo(f.Cpu), nil
}

func machoCpuToInfo(cpu macho.Cpu) *BinaryInfo {
	info := &BinaryInfo{OS: platform.MacOSX, Format: FormatMachO, Bitsize: "32"}

	switch cpu {
	case macho.CpuAmd64:
		info.Arch = "amd64"
	case macho.CpuArm64:
		info.Arch = "arm64"
	case macho.Cpu386:
		info.Arch = "386"
	case macho.CpuArm:
		info.Arch = "arm"
	default:
		info.Arch = fmt.Sprintf("unknown(%d)", cpu)
	}
	// 64-bit cpu types carry the ABI64 flag
	if cpu&0x01000000 != 0 {
		info.Bitsize = "64"
	}
	return info
}

func detectPE(path string) (*BinaryInfo, error) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PE: %w", err)
	}
	defer func() { _ = f.Close() }()

	info := &BinaryInfo{OS: platform.Windows, Format: FormatPE}

	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_AMD64:
		info.Arch, info.Bitsize = "amd64", "64"
	case pe.IMAGE_FILE_MACHINE_ARM64:
		info.Arch, info.Bitsize = "arm64", "64"
	case pe.IMAGE_FILE_MACHINE_I386:
		info.Arch, info.Bitsize = "386", "32"
	case pe.IMAGE_FILE_MACHINE_ARMNT:
		info.Arch, info.Bitsize = "arm", "32"
	default:
		info.Arch = fmt.Sprintf("unknown(%d)", f.Machine)
	}

	return info, nil
}

// VerifyBinaryPlatform checks that the binary at path runs on expected.
// Windows and macOS releases ship a single build, so only the OS is compared for them.
// Formats without platform information always pass.
func VerifyBinaryPlatform(path string, expected platform.Info) (*BinaryInfo, error) {
	info, err := DetectBinaryPlatform(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect binary platform: %w", err)
	}
	if !info.Known() {
		return info, nil
	}

	if info.OS != expected.OS {
		return info, &MismatchError{Path: path, Expected: expected, Actual: info}
	}
	if expected.OS == platform.Linux && info.Bitsize != "" && info.Bitsize != expected.Bitsize {
		return info, &MismatchError{Path: path, Expected: expected, Actual: info}
	}
	return info, nil
}
