// Package workload builds the input arrays shared by both add kernels.
package workload

import (
	"fmt"
	"math/rand/v2"
)

// Operand values are drawn uniformly from [MinValue, MaxValue).
const (
	MinValue    = 1000
	MaxValue    = 100000
	DefaultSize = 64
)

// Inputs holds the destination and the two operand arrays.
// Both kernels write Dst; nothing isolates one run from the next.
type Inputs struct {
	Dst []int32
	LHS []int32
	RHS []int32
}

// Len returns the number of elements in each array.
func (in *Inputs) Len() int {
	return len(in.Dst)
}

// Generate allocates arrays of length n and fills LHS and RHS from seed.
// A zero seed draws a random one.
func Generate(n int, seed uint64) (*Inputs, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid size %d: must not be negative", n)
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	in := &Inputs{
		Dst: make([]int32, n),
		LHS: make([]int32, n),
		RHS: make([]int32, n),
	}
	for i := range n {
		in.LHS[i] = draw(rng)
		in.RHS[i] = draw(rng)
	}
	return in, nil
}

func draw(rng *rand.Rand) int32 {
	return MinValue + rng.Int32N(MaxValue-MinValue)
}
