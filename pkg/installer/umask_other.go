//go:build !unix

package installer

import "os"

func processUmask() os.FileMode {
	return 0
}
