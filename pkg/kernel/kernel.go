// Package kernel holds the two elementwise int32 add kernels under study:
// a plain scalar loop and an explicitly vectorized version that adds eight
// lanes per step.
//
// The vectorized kernel's amd64 body lives in add_amd64.s. The Go toolchain
// assembles it as written, so the listing shows exactly the instructions in
// that file. Build with -tags purego to force the portable fallback.
package kernel

// Lanes is the number of int32 values handled per packed add.
const Lanes = 8

// Add computes dst[i] = lhs[i] + rhs[i] for every element of dst.
// Slices must have equal length. Panics if lengths differ.
//
//go:noinline
func Add(dst, lhs, rhs []int32) {
	checkLengths(dst, lhs, rhs)
	for i := range dst {
		dst[i] = lhs[i] + rhs[i]
	}
}

// Implementation names the code path AddVectorized takes on this machine.
func Implementation() string {
	if useAVX2() {
		return "avx2"
	}
	return "generic"
}

func checkLengths(dst, lhs, rhs []int32) {
	if len(lhs) != len(rhs) || len(dst) != len(lhs) {
		panic("kernel: slice length mismatch")
	}
}

// addVectorizedGeneric mirrors the packed kernel in portable Go: an unrolled
// eight-lane body followed by a scalar tail for the n mod 8 remainder.
func addVectorizedGeneric(dst, lhs, rhs []int32) {
	n := len(dst)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := dst[i : i+Lanes : i+Lanes]
		a := lhs[i : i+Lanes : i+Lanes]
		b := rhs[i : i+Lanes : i+Lanes]
		d[0] = a[0] + b[0]
		d[1] = a[1] + b[1]
		d[2] = a[2] + b[2]
		d[3] = a[3] + b[3]
		d[4] = a[4] + b[4]
		d[5] = a[5] + b[5]
		d[6] = a[6] + b[6]
		d[7] = a[7] + b[7]
	}
	for ; i < n; i++ {
		dst[i] = lhs[i] + rhs[i]
	}
}
