package kernel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/vecasm/internal/cpu"
)

func randomOperands(rng *rand.Rand, n int) ([]int32, []int32) {
	lhs := make([]int32, n)
	rhs := make([]int32, n)
	for i := range n {
		lhs[i] = rng.Int32()
		rhs[i] = rng.Int32() - math.MaxInt32/2
	}
	return lhs, rhs
}

// runBothPaths runs fn once with detected features and once with the
// generic fallback forced.
func runBothPaths(t *testing.T, fn func(t *testing.T)) {
	t.Helper()
	t.Run("detected", func(t *testing.T) {
		cpu.ResetDetection()
		fn(t)
	})
	t.Run("generic", func(t *testing.T) {
		cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
		t.Cleanup(cpu.ResetDetection)
		require.Equal(t, "generic", Implementation())
		fn(t)
	})
}

func TestAdd(t *testing.T) {
	dst := make([]int32, 3)
	Add(dst, []int32{1, 2, 3}, []int32{10, 20, 30})
	require.Equal(t, []int32{11, 22, 33}, dst)
}

func TestAddVectorized_MatchesAdd(t *testing.T) {
	runBothPaths(t, func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for n := 0; n <= 70; n++ {
			lhs, rhs := randomOperands(rng, n)
			want := make([]int32, n)
			got := make([]int32, n)

			Add(want, lhs, rhs)
			AddVectorized(got, lhs, rhs)
			require.Equal(t, want, got, "n=%d", n)
		}
	})
}

func TestAddVectorized_Edges(t *testing.T) {
	tests := []struct {
		name string
		lhs  []int32
		rhs  []int32
	}{
		{
			name: "shorter_than_one_chunk",
			lhs:  []int32{1, 2, 3, 4, 5},
			rhs:  []int32{5, 4, 3, 2, 1},
		},
		{
			name: "exact_chunk",
			lhs:  []int32{1, 2, 3, 4, 5, 6, 7, 8},
			rhs:  []int32{8, 7, 6, 5, 4, 3, 2, 1},
		},
		{
			name: "chunk_plus_remainder",
			lhs:  []int32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			rhs:  []int32{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		},
		{
			name: "wraparound",
			lhs:  []int32{math.MaxInt32, math.MinInt32, -1, math.MaxInt32, 0, 0, 0, 0, math.MaxInt32},
			rhs:  []int32{1, -1, math.MinInt32, math.MaxInt32, 0, 0, 0, 0, 1},
		},
	}

	runBothPaths(t, func(t *testing.T) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				want := make([]int32, len(tt.lhs))
				got := make([]int32, len(tt.lhs))
				Add(want, tt.lhs, tt.rhs)
				AddVectorized(got, tt.lhs, tt.rhs)
				require.Equal(t, want, got)
			})
		}
	})
}

func TestAddVectorized_OverwritesDestination(t *testing.T) {
	dst := []int32{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	lhs := []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	rhs := make([]int32, len(lhs))

	Add(dst, lhs, rhs)
	AddVectorized(dst, lhs, rhs)
	require.Equal(t, lhs, dst)
}

func TestKernels_PanicOnLengthMismatch(t *testing.T) {
	require.PanicsWithValue(t, "kernel: slice length mismatch", func() {
		Add(make([]int32, 2), make([]int32, 3), make([]int32, 3))
	})
	require.PanicsWithValue(t, "kernel: slice length mismatch", func() {
		AddVectorized(make([]int32, 3), make([]int32, 3), make([]int32, 2))
	})
}

func BenchmarkAdd(b *testing.B) {
	lhs, rhs := randomOperands(rand.New(rand.NewPCG(3, 4)), 4096)
	dst := make([]int32, len(lhs))
	for b.Loop() {
		Add(dst, lhs, rhs)
	}
}

func BenchmarkAddVectorized(b *testing.B) {
	lhs, rhs := randomOperands(rand.New(rand.NewPCG(3, 4)), 4096)
	dst := make([]int32, len(lhs))
	for b.Loop() {
		AddVectorized(dst, lhs, rhs)
	}
}
