//go:build unix

package installer

import (
	"os"

	"golang.org/x/sys/unix"
)

// startupUmask is read during package initialization, before any task goroutine
// can create files while the mask is briefly cleared
var startupUmask = readUmask()

func readUmask() os.FileMode {
	mask := unix.Umask(0)
	unix.Umask(mask)
	return os.FileMode(mask)
}

func processUmask() os.FileMode {
	return startupUmask
}
