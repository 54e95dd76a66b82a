//go:build purego || !amd64

package kernel

// AddVectorized computes dst[i] = lhs[i] + rhs[i] eight lanes at a time,
// finishing the remainder with a scalar loop.
// Slices must have equal length. Panics if lengths differ.
// This is the pure Go implementation.
func AddVectorized(dst, lhs, rhs []int32) {
	checkLengths(dst, lhs, rhs)
	addVectorizedGeneric(dst, lhs, rhs)
}

func useAVX2() bool {
	return false
}
