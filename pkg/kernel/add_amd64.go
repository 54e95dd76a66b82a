//go:build !purego && amd64

package kernel

import "github.com/715d/vecasm/internal/cpu"

// AddVectorized computes dst[i] = lhs[i] + rhs[i] in chunks of eight lanes
// with VPADDD, then finishes the remainder with a scalar loop.
// Slices must have equal length. Panics if lengths differ.
// Falls back to portable Go when the CPU lacks AVX2.
func AddVectorized(dst, lhs, rhs []int32) {
	checkLengths(dst, lhs, rhs)
	if len(dst) == 0 {
		return
	}
	if useAVX2() {
		addVectorizedAVX2(dst, lhs, rhs)
		return
	}
	addVectorizedGeneric(dst, lhs, rhs)
}

func useAVX2() bool {
	return cpu.HasAVX2()
}

// Implemented in add_amd64.s.

//go:noescape
func addVectorizedAVX2(dst, lhs, rhs []int32)
