// Package cpu reports the SIMD extensions available to the add kernels.
//
// Detection runs once and is cached. Tests can override the result with
// SetForcedFeatures to exercise the generic fallback on any machine.
package cpu

import (
	"runtime"
	"sync"
)

// Features describes the CPU capabilities relevant to kernel selection.
type Features struct {
	HasSSE2 bool
	HasAVX  bool
	HasAVX2 bool

	// ForceGeneric disables every SIMD path.
	ForceGeneric bool

	Architecture string // runtime.GOARCH
}

var (
	detectOnce sync.Once
	detected   Features

	forcedMu sync.RWMutex
	forced   *Features
)

// DetectFeatures returns the features of the current CPU, or the forced set
// when one is installed.
func DetectFeatures() Features {
	forcedMu.RLock()
	f := forced
	forcedMu.RUnlock()
	if f != nil {
		return *f
	}

	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
		detected.Architecture = runtime.GOARCH
	})
	return detected
}

// HasAVX2 reports whether the 256-bit integer kernel may run.
func HasAVX2() bool {
	f := DetectFeatures()
	return f.HasAVX2 && !f.ForceGeneric
}

// SetForcedFeatures overrides hardware detection. Intended for tests.
func SetForcedFeatures(f Features) {
	forcedMu.Lock()
	defer forcedMu.Unlock()
	forced = &f
}

// ResetDetection removes any forced feature set.
func ResetDetection() {
	forcedMu.Lock()
	forced = nil
	forcedMu.Unlock()
}

// Extensions lists the detected SIMD extensions, oldest first. A forced
// generic set reports none.
func (f Features) Extensions() []string {
	if f.ForceGeneric {
		return nil
	}
	var exts []string
	if f.HasSSE2 {
		exts = append(exts, "sse2")
	}
	if f.HasAVX {
		exts = append(exts, "avx")
	}
	if f.HasAVX2 {
		exts = append(exts, "avx2")
	}
	return exts
}
