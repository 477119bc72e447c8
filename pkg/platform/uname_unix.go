//go:build unix

package platform

import (
	"golang.org/x/sys/unix"
)

// kernelName returns the sysname and machine reported by uname(2)
func kernelName() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Sysname[:]) + " " + unix.ByteSliceToString(uts.Machine[:])
}
