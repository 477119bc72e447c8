//go:build windows

package platform

func kernelName() string {
	return "Windows NT"
}
