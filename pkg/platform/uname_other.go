//go:build !unix && !windows

package platform

func kernelName() string {
	return ""
}
