//go:build !amd64

package cpu

// detectFeaturesImpl reports no x86 extensions on other architectures.
func detectFeaturesImpl() Features {
	return Features{}
}
